package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"omibyte.io/objmodel/rtti"
)

var (
	typesOpts = struct {
		format string
	}{}

	typesCmd = &cobra.Command{
		Use:   "types [name...]",
		Short: "List registered type descriptors",
		Long:  "List the registered type descriptors in layout order, or only the named ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []*rtti.Type
			if len(args) == 0 {
				types = rtti.Global.Types()
			} else {
				for _, name := range args {
					t, ok := rtti.Global.Lookup(name)
					if !ok {
						return fmt.Errorf("unknown type %q", name)
					}
					types = append(types, t)
				}
			}

			switch typesOpts.format {
			case "text":
				return writeTypeTable(cmd.OutOrStdout(), types)
			case "yaml":
				return writeTypeYAML(cmd.OutOrStdout(), types)
			}
			return fmt.Errorf("unknown format %q", typesOpts.format)
		},
	}
)

func init() {
	typesCmd.Flags().StringVarP(&typesOpts.format, "format", "f", "text", "output format (text, yaml)")
}

type memberDoc struct {
	Name       string   `yaml:"name"`
	Arguments  []string `yaml:"arguments,omitempty"`
	MaxArgs    int      `yaml:"maxArgs"`
	Return     string   `yaml:"return,omitempty"`
	Static     bool     `yaml:"static,omitempty"`
	Overloaded bool     `yaml:"overloaded,omitempty"`
}

type fieldDoc struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	Offset    uintptr `yaml:"offset"`
	IsPointer bool    `yaml:"pointer,omitempty"`
}

type typeDoc struct {
	Name      string      `yaml:"name"`
	Kind      string      `yaml:"kind"`
	Size      uintptr     `yaml:"size"`
	Alignment uintptr     `yaml:"alignment"`
	Subtype   string      `yaml:"subtype,omitempty"`
	Fields    []fieldDoc  `yaml:"fields,omitempty"`
	Members   []memberDoc `yaml:"members,omitempty"`
}

func describe(t *rtti.Type) typeDoc {
	doc := typeDoc{
		Name:      t.Name(),
		Kind:      t.Kind().String(),
		Size:      t.Size(),
		Alignment: t.Alignment(),
	}
	if sub := t.Subtype(); sub != nil {
		doc.Subtype = sub.Name()
	}
	for i := 0; i < t.NumFields(); i++ {
		f := t.Field(i)
		doc.Fields = append(doc.Fields, fieldDoc{
			Name:      f.Name,
			Type:      f.Type.String(),
			Offset:    f.Offset,
			IsPointer: f.IsPointer,
		})
	}
	for i := 0; i < t.NumMembers(); i++ {
		m := t.Member(i)
		md := memberDoc{
			Name:       m.Name,
			MaxArgs:    m.ArgumentCount,
			Static:     m.Static,
			Overloaded: m.Overloaded,
		}
		if m.Return != nil {
			md.Return = m.Return.Name()
		}
		for _, a := range m.Arguments {
			md.Arguments = append(md.Arguments, a.Name())
		}
		doc.Members = append(doc.Members, md)
	}
	return doc
}

func writeTypeYAML(w io.Writer, types []*rtti.Type) error {
	docs := make([]typeDoc, len(types))
	for i, t := range types {
		docs[i] = describe(t)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Types []typeDoc `yaml:"types"`
	}{docs}); err != nil {
		return err
	}
	return enc.Close()
}

func writeTypeTable(w io.Writer, types []*rtti.Type) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tSIZE\tALIGN\tMEMBERS")
	for _, t := range types {
		names := make([]string, t.NumMembers())
		for i := range names {
			names[i] = t.Member(i).Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", t.Name(), t.Kind(), t.Size(), t.Alignment(), strings.Join(names, ","))
	}
	return tw.Flush()
}
