package cases

import (
	"reflect"

	"github.com/onsi/ginkgo/v2"
)

// DescribeTable declares a Ginkgo table with one entry per case file. The
// description doubles as the test function name for directory resolution,
// so "Add_WhenBothPositive" reads the Add directory of fn's package.
//
//	var _ = cases.DescribeTable("Add_WhenBothPositive", func(in [2]float64, want float64, file string) {
//		Expect(calc.Add(in[0], in[1])).To(Equal(want), file)
//	})
//
// If the cases cannot be loaded the table holds a single failing spec.
func DescribeTable(description string, fn any, opts ...Option) bool {
	l, err := New(opts...)
	if err == nil {
		var args []any
		args, err = tableArgs(l, description, fn)
		if err == nil {
			return ginkgo.DescribeTable(description, args...)
		}
	}

	loadErr := err
	return ginkgo.Describe(description, func() {
		ginkgo.It("loads its case files", func() {
			ginkgo.Fail(loadErr.Error())
		})
	})
}

func tableArgs(l *Loader, description string, fn any) ([]any, error) {
	cs, err := l.cases(fn, description)
	if err != nil {
		return nil, err
	}
	ft := reflect.TypeOf(fn)
	args := make([]any, 0, len(cs)+1)
	args = append(args, fn)
	for _, c := range cs {
		values := argValues(c.Args, ft, ft.NumIn()-len(c.Args))
		entry := make([]any, len(values))
		for i, v := range values {
			entry[i] = v.Interface()
		}
		args = append(args, ginkgo.Entry(caseName(c.File), entry...))
	}
	return args, nil
}
