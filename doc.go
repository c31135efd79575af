// Package ecmaregex implements the ECMAScript RegExp subsystem: parsing
// a pattern source plus flags into a compact bytecode image (package
// syntax), and running that image against UTF-16 or byte input with a
// backtracking virtual machine (package vm). This package is the public
// facade tying the two together.
//
// Basic usage:
//
//	re, err := ecmaregex.Compile(`\d+`, ecmaregex.FlagGlobal)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := re.ExecString("room 42", 0)
//	if err == nil && res.Matched {
//	    fmt.Println(res.Index, res.EndIndex) // 5 7
//	}
//
// Unlike JIT-compiled engines, ecmaregex always walks the same compiled
// bytecode through the same explicit backtracking loop: there is no
// strategy selection, no literal prefiltering, and no cross-call cache.
// These are deliberate scope boundaries, not missing optimizations — see
// DESIGN.md for the reasoning.
package ecmaregex
