package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/construct"
	"github.com/MetaFFI/plugin-sdk/pkg/hostadapter"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
	"github.com/MetaFFI/plugin-sdk/pkg/traverse"
)

var traverseFile string

var traverseCmd = &cobra.Command{
	Use:   "traverse",
	Short: "Build a CDTS array from a JSON tree and traverse it leaf by leaf",
	Long: `traverse builds an array the same way construct does, then runs it
through the traverse_cdts engine (pkg/traverse), printing one table row per
leaf visited in tree order.`,
	RunE: runTraverse,
}

func init() {
	traverseCmd.Flags().StringVarP(&traverseFile, "file", "f", "", "path to a JSON tree description")
	_ = traverseCmd.MarkFlagRequired("file")
}

func runTraverse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(traverseFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", traverseFile, err)
	}
	root, err := hostadapter.DecodeJSONTree(data)
	if err != nil {
		return err
	}

	arr, err := construct.BuildTraced(cmd.Context(), hostadapter.NewNativeSource(root))
	if err != nil {
		return fmt.Errorf("construct failed: %w", err)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"path", "tag", "value"})

	row := func(path []uint64, v cdt.Value) error {
		table.Append([]string{pathString(path), v.Tag.String(), describeValue(v)})
		return nil
	}

	callbacks := traverse.Callbacks{
		OnFloat64: func(path []uint64, f float64) error { return row(path, cdt.Float64Value(f)) },
		OnFloat32: func(path []uint64, f float32) error { return row(path, cdt.Float32Value(f)) },
		OnInt8:    func(path []uint64, n int8) error { return row(path, cdt.Int8Value(n)) },
		OnInt16:   func(path []uint64, n int16) error { return row(path, cdt.Int16Value(n)) },
		OnInt32:   func(path []uint64, n int32) error { return row(path, cdt.Int32Value(n)) },
		OnInt64:   func(path []uint64, n int64) error { return row(path, cdt.Int64Value(n)) },
		OnUint8:   func(path []uint64, n uint8) error { return row(path, cdt.Uint8Value(n)) },
		OnUint16:  func(path []uint64, n uint16) error { return row(path, cdt.Uint16Value(n)) },
		OnUint32:  func(path []uint64, n uint32) error { return row(path, cdt.Uint32Value(n)) },
		OnUint64:  func(path []uint64, n uint64) error { return row(path, cdt.Uint64Value(n)) },
		OnBool:    func(path []uint64, b bool) error { return row(path, cdt.BoolValue(b)) },
		OnString8: func(path []uint64, s string) error { return row(path, cdt.String8Value(s)) },
		OnNull:    func(path []uint64) error { return row(path, cdt.Null()) },
		OnArray: func(path []uint64, v *cdt.Array, fixedDimensions int64, commonType primitive.Tag) (bool, error) {
			return true, nil
		},
	}

	if err := traverse.RunTraced(cmd.Context(), arr, callbacks); err != nil {
		return fmt.Errorf("traverse failed: %w", err)
	}
	table.Render()
	return nil
}

func pathString(path []uint64) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += fmt.Sprintf("%d", p)
	}
	return s
}
