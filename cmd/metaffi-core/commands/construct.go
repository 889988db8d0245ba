package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/construct"
	"github.com/MetaFFI/plugin-sdk/pkg/hostadapter"
)

var (
	constructFile        string
	constructInteractive bool
)

var constructCmd = &cobra.Command{
	Use:   "construct",
	Short: "Build a CDTS array from a JSON tree or an interactive prompt",
	Long: `construct runs the construct_cdts engine (pkg/construct) over a
construct.Source built from plain Go values (pkg/hostadapter.NativeSource),
then prints the resulting array's top-level elements.

A JSON input file is an array of typed nodes:
  [{"type": "int32", "value": 5}, {"type": "array", "items": [...]}]`,
	RunE: runConstruct,
}

func init() {
	constructCmd.Flags().StringVarP(&constructFile, "file", "f", "", "path to a JSON tree description")
	constructCmd.Flags().BoolVarP(&constructInteractive, "interactive", "i", false, "build the tree interactively")
}

func runConstruct(cmd *cobra.Command, args []string) error {
	root, err := loadOrPromptTree()
	if err != nil {
		return err
	}

	arr, err := construct.BuildTraced(cmd.Context(), hostadapter.NewNativeSource(root))
	if err != nil {
		return fmt.Errorf("construct failed: %w", err)
	}

	printArraySummary(cmd, arr)
	return nil
}

func loadOrPromptTree() ([]any, error) {
	if constructInteractive {
		return promptTree()
	}
	if constructFile == "" {
		return nil, fmt.Errorf("one of --file or --interactive is required")
	}
	data, err := os.ReadFile(constructFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", constructFile, err)
	}
	return hostadapter.DecodeJSONTree(data)
}

var leafTypes = []string{
	"float64", "float32", "int8", "int16", "int32", "int64",
	"uint8", "uint16", "uint32", "uint64", "bool", "string", "array", "null",
}

// promptTree interactively builds a native []any tree via promptui,
// recursing into "array" elements.
func promptTree() ([]any, error) {
	countPrompt := promptui.Prompt{
		Label:    "Number of elements",
		Validate: validatePositiveInt,
	}
	countStr, err := countPrompt.Run()
	if err != nil {
		return nil, err
	}
	count, _ := strconv.Atoi(countStr)

	out := make([]any, count)
	for i := 0; i < count; i++ {
		v, err := promptLeaf(fmt.Sprintf("element %d type", i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func promptLeaf(label string) (any, error) {
	sel := promptui.Select{Label: label, Items: leafTypes}
	_, kind, err := sel.Run()
	if err != nil {
		return nil, err
	}

	if kind == "array" {
		return promptTree()
	}
	if kind == "null" {
		return nil, nil
	}

	valPrompt := promptui.Prompt{Label: fmt.Sprintf("%s value", kind)}
	raw, err := valPrompt.Run()
	if err != nil {
		return nil, err
	}
	return parseLeaf(kind, raw)
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func parseLeaf(kind, raw string) (any, error) {
	switch kind {
	case "float64":
		return strconv.ParseFloat(raw, 64)
	case "float32":
		v, err := strconv.ParseFloat(raw, 32)
		return float32(v), err
	case "int8":
		v, err := strconv.ParseInt(raw, 10, 8)
		return int8(v), err
	case "int16":
		v, err := strconv.ParseInt(raw, 10, 16)
		return int16(v), err
	case "int32":
		v, err := strconv.ParseInt(raw, 10, 32)
		return int32(v), err
	case "int64":
		return strconv.ParseInt(raw, 10, 64)
	case "uint8":
		v, err := strconv.ParseUint(raw, 10, 8)
		return uint8(v), err
	case "uint16":
		v, err := strconv.ParseUint(raw, 10, 16)
		return uint16(v), err
	case "uint32":
		v, err := strconv.ParseUint(raw, 10, 32)
		return uint32(v), err
	case "uint64":
		return strconv.ParseUint(raw, 10, 64)
	case "bool":
		return strconv.ParseBool(raw)
	case "string":
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported leaf type %q", kind)
	}
}

func printArraySummary(cmd *cobra.Command, arr *cdt.Array) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"index", "tag", "value"})

	for i := uint64(0); i < arr.Len(); i++ {
		v := arr.At(i)
		table.Append([]string{fmt.Sprintf("%d", i), v.Tag.String(), describeValue(*v)})
	}
	table.Render()
}
