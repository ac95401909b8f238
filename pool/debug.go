package pool

import "os"

// Debug flag - set to true to enable the double-free check in deallocate
// (compile-time toggle).
const debugPool = false

// Runtime flag for block growth logging - controlled by POOL_LOG_GROW env var.
var logGrow = os.Getenv("POOL_LOG_GROW") != ""
