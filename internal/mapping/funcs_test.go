package mapping_test

import (
	"fmt"
	"strconv"

	"caster/internal/mapping"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleParseFunc() {
	desc, err := mapping.ParseFunc(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.In[0].Kind(), desc.Out.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseFunc(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.In[0].Kind(), desc.Out.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseFunc(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.In[0].Kind(), desc.Out.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseFunc(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.In[0].Kind(), desc.Out.Kind(), desc.HasBool, desc.HasErr)

	_, err = mapping.ParseFunc(empty)
	fmt.Println(err)

	_, err = mapping.ParseFunc(wrong)
	fmt.Println(err)

	// Output:
	// <nil> mapping_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> mapping_test customError int string false true
	// unrecognized signature: invalid function
	// unrecognized signature: invalid function
}

func ExampleParseConverter() {
	rule, _ := mapping.ParseConverter(func(cents int64) (string, bool) {
		return strconv.FormatInt(cents/100, 10), cents >= 0
	})

	out, ok, err := rule.Eval(int64(1250), nil)
	fmt.Println(out, ok, err)

	_, ok, _ = rule.Eval(int64(-5), nil)
	fmt.Println(ok)

	out, ok, _ = rule.Eval(int32(300), nil)
	fmt.Println(out, ok)

	// Output:
	// 12 true <nil>
	// false
	// 3 true
}
