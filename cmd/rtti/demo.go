package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"omibyte.io/objmodel/internal/allocator"
	"omibyte.io/objmodel/rtti"
	"omibyte.io/objmodel/str"
	"omibyte.io/objmodel/vector"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the string and vector scenarios",
	Long:  "Build a string through reflective calls, then print a vector of strings. Fails if any allocation leaks.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		live := allocator.Live()

		if err := stringScenario(cmd.OutOrStdout()); err != nil {
			return err
		}
		if err := vectorScenario(cmd.OutOrStdout()); err != nil {
			return err
		}

		if leaked := allocator.Live() - live; leaked != 0 {
			return fmt.Errorf("%d allocations leaked", leaked)
		}
		logger.Info("demo finished", "allocations", allocator.Allocations())
		return nil
	},
}

func stringScenario(w io.Writer) error {
	s := rtti.MakeDefault(str.Type)
	defer s.Release()

	if _, err := rtti.Call(s, "append", rtti.FromCstr("Cool!")); err != nil {
		return err
	}
	if err := printCstr(w, s); err != nil {
		return err
	}

	if _, err := rtti.Call(s, "prepend", rtti.FromCstr("You Are ")); err != nil {
		return err
	}
	return printCstr(w, s)
}

func printCstr(w io.Writer, s rtti.Any) error {
	result, err := rtti.Call(s, "cstr")
	if err != nil {
		return err
	}
	text, _ := result.Cstr()
	_, err = fmt.Fprintln(w, text)
	return err
}

func vectorScenario(w io.Writer) error {
	vec := vector.New(str.Type)
	defer vec.Free()

	hello := str.FromText("Hello")
	vec.Push(&hello)

	there := str.FromText("there")
	vec.Push(&there)

	logger.Debug("vector filled", "len", vec.Len(), "cap", vec.Cap())
	return vec.Print(w)
}
