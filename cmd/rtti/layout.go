package main

import (
	"errors"
	"fmt"
	"go/types"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"
	"gopkg.in/yaml.v3"

	"omibyte.io/objmodel/internal/layout"
)

var (
	layoutOpts = struct {
		arch string
	}{}

	layoutCmd = &cobra.Command{
		Use:   "layout <package> <type>...",
		Short: "Print field tables for Go struct types",
		Long:  "Load a Go package and print the offset, size and alignment of every field of the named struct types, for writing rtti.Field tables.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &packages.Config{
				Mode:    packages.NeedName | packages.NeedTypes | packages.NeedTypesSizes,
				Context: cmd.Context(),
			}
			pkgs, err := packages.Load(cfg, args[0])
			if err != nil {
				return err
			}
			if packages.PrintErrors(pkgs) > 0 {
				return errors.New("package loading failed")
			}
			if len(pkgs) != 1 {
				return fmt.Errorf("pattern %q matched %d packages", args[0], len(pkgs))
			}

			pkg := pkgs[0]
			sizes := pkg.TypesSizes
			if layoutOpts.arch != "" {
				if sizes = types.SizesFor("gc", layoutOpts.arch); sizes == nil {
					return fmt.Errorf("unknown architecture %q", layoutOpts.arch)
				}
			}
			logger.Debug("loaded package", "path", pkg.PkgPath)

			var structs []layout.Struct
			for _, name := range args[1:] {
				s, err := layout.Lookup(pkg.Types, name, sizes)
				if err != nil {
					return err
				}
				structs = append(structs, s)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err = enc.Encode(structs); err != nil {
				return err
			}
			return enc.Close()
		},
	}
)

func init() {
	layoutCmd.Flags().StringVar(&layoutOpts.arch, "arch", "", "target GOARCH for sizes (default: the host)")
}
