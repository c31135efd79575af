package ecmaregex_test

import (
	"fmt"

	"github.com/coregx/ecmaregex"
)

// ExampleCompile demonstrates basic pattern compilation and matching.
func ExampleCompile() {
	re, err := ecmaregex.Compile(`\d+`, 0)
	if err != nil {
		panic(err)
	}
	fmt.Println(re.Match([]byte("hello 123")))
	// Output: true
}

// ExampleMustCompile demonstrates panic-on-error compilation.
func ExampleMustCompile() {
	re := ecmaregex.MustCompile(`hello`, 0)
	fmt.Println(re.MatchString("hello world"))
	// Output: true
}

// ExampleRegexp_ExecString demonstrates running a match and reading the
// overall span back out of the result.
func ExampleRegexp_ExecString() {
	re := ecmaregex.MustCompile(`\d+`, 0)
	res, err := re.ExecString("age: 42", 0)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Index, res.EndIndex)
	// Output: 5 7
}

// ExampleRegexp_FindAllStringIndex demonstrates iterating every match.
func ExampleRegexp_FindAllStringIndex() {
	re := ecmaregex.MustCompile(`\d`, ecmaregex.FlagGlobal)
	for _, loc := range re.FindAllStringIndex("a1b2c3", -1) {
		fmt.Print(loc[0], " ")
	}
	fmt.Println()
	// Output: 1 3 5
}

// ExampleRegexp_CaptureNames demonstrates reading named capture groups.
func ExampleRegexp_CaptureNames() {
	re := ecmaregex.MustCompile(`(?<year>\d{4})-(?<month>\d{2})`, 0)
	fmt.Println(re.CaptureNames())
	// Output: [ year month]
}
