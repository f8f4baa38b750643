package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/dataspec/hclspec"
	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/jsonspec"
	"github.com/agentic-research/dataspec/spec"
	"github.com/agentic-research/dataspec/walk"
)

var (
	schemaPath string
	dataPath   string
	selectPat  string
	globPat    string
	tagFilters []string
	groupAttr  string
	taggedOnly bool
	allUnions  bool
)

func init() {
	inspectCmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Path to HCL schema file")
	inspectCmd.Flags().StringVarP(&dataPath, "data", "d", "", "Path to JSON data file")
	inspectCmd.Flags().StringVar(&selectPat, "select", "", "Keep only specs whose ID matches this regex")
	inspectCmd.Flags().StringVar(&globPat, "glob", "", "Keep only specs whose ID matches this glob")
	inspectCmd.Flags().StringArrayVarP(&tagFilters, "tag", "t", nil, "Keep only specs carrying this tag (repeatable, intersected)")
	inspectCmd.Flags().StringVarP(&groupAttr, "group", "g", "", "Group output by this attribute (id, name, tags, type, data, unit, origin)")
	inspectCmd.Flags().BoolVar(&taggedOnly, "tagged", false, "Keep only tagged specs and their ancestors")
	inspectCmd.Flags().BoolVar(&allUnions, "all-unions", false, "Walk every union arm instead of the first")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decompose a schema or JSON document into specs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ss, err := loadSpecs()
		if err != nil {
			return err
		}
		ss, err = filterSpecs(ss)
		if err != nil {
			return err
		}

		if groupAttr != "" {
			groups, err := ss.GroupBy(groupAttr)
			if err != nil {
				return err
			}
			for i, group := range groups {
				if i > 0 {
					fmt.Println()
				}
				key, err := group[0].Attr(groupAttr)
				if err != nil {
					return err
				}
				fmt.Printf("%s = %v\n", groupAttr, key)
				printSpecs(group)
			}
			return nil
		}

		printSpecs(ss)
		return nil
	},
}

// loadSpecs builds the spec collection from the schema and data flags.
// A schema drives a hint walk, with the JSON document (if any) supplying
// runtime values; bare data is decomposed directly.
func loadSpecs() (spec.Specs, error) {
	var data any
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, fmt.Errorf("read data: %w", err)
		}
		if schemaPath == "" {
			return jsonspec.FromJSON(raw)
		}
		data, err = oj.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse data: %w", err)
		}
	}

	if schemaPath == "" {
		return nil, fmt.Errorf("either --schema or --data is required")
	}

	raw, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	typ, err := hclspec.Load(schemaPath, raw)
	if err != nil {
		return nil, err
	}

	w := walk.New(walk.FirstOnly(!allUnions), walk.TaggedOnly(taggedOnly))
	return w.FromHint(typ, spec.Root, data)
}

func filterSpecs(ss spec.Specs) (spec.Specs, error) {
	var err error
	if selectPat != "" {
		ss, err = ss.Select(spec.ByPattern(selectPat))
		if err != nil {
			return nil, err
		}
	}
	if globPat != "" {
		ss, err = ss.Select(spec.ByGlob(globPat))
		if err != nil {
			return nil, err
		}
	}
	if len(tagFilters) > 0 {
		ix := spec.NewIndex(ss)
		set := ix.All()
		for _, t := range tagFilters {
			set = set.And(ix.Tag(hint.Tag(t)))
		}
		ss = set.Specs()
	}
	return ss, nil
}

func printSpecs(ss spec.Specs) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTAGS\tTYPE\tUNIT\tDATA")
	for _, s := range ss {
		tags := make([]string, len(s.Tags))
		for i, t := range s.Tags {
			tags[i] = string(t)
		}
		typ := ""
		if s.Type != nil {
			typ = s.Type.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
			s.ID, s.Name, strings.Join(tags, ","), typ, s.Unit, s.Data)
	}
	w.Flush()
}
