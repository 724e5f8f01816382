//go:build llama

package model

// cgo link directives for the in-process llama runtime.
// libllama.so and libggml*.so are expected next to the binary (./bin), found
// at runtime through an $ORIGIN rpath and at link time through -L.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
