package scientist_test

import (
	"context"
	"fmt"

	"github.com/aretw0/scientist"
	"github.com/aretw0/scientist/pkg/adapters/memory"
)

func Example() {
	journal := memory.NewJournal()
	lab := scientist.New(scientist.WithJournals(journal))

	exp := scientist.NewExperiment[int](lab, "sum").
		Control(func(ctx context.Context, params ...any) (int, error) {
			return params[0].(int) + params[1].(int), nil
		}).
		Candidate("alt", func(ctx context.Context, params ...any) (int, error) {
			return params[0].(int) * params[1].(int), nil
		}).
		WithParams(2, 3)

	value, err := exp.Run(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println("value:", value)

	_, report, _ := journal.Last()
	alt, _ := report.Candidate("alt")
	fmt.Println("alt:", alt.Value, "matched:", report.Matches["alt"])

	// Output:
	// value: 5
	// alt: 6 matched: false
}

func ExampleGetReport() {
	exp := scientist.NewExperiment[string](nil, "greeting").
		Control(func(ctx context.Context, params ...any) (string, error) {
			return "hello " + params[0].(string), nil
		}).
		Candidate("fmt", func(ctx context.Context, params ...any) (string, error) {
			return fmt.Sprintf("hello %s", params[0]), nil
		}).
		WithParams("world")

	result, err := scientist.GetReport(context.Background(), nil, exp)
	if err != nil {
		panic(err)
	}
	fmt.Println(result.Control.Value)
	fmt.Println(result.AllMatched())

	// Output:
	// hello world
	// true
}
