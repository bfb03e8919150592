package options

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/folder"
)

// PositionOptions
type PositionOptions struct {
	At string
	To string
	By string
}

func AddAtArg(cmd *cobra.Command, o *PositionOptions) {
	cmd.Flags().StringVar(&o.At, "at", "0,0",
		`Position on the parent's canvas, example: --at=120,40.`)
}

func AddMoveArgs(cmd *cobra.Command, o *PositionOptions) {
	cmd.Flags().StringVar(&o.To, "to", "",
		`Place the folder at a position, example: --to=120,40.`)
	cmd.Flags().StringVar(&o.By, "by", "",
		`Drag the folder by an offset, example: --by=-20,15.`)
}

// ParsePosition reads "x,y".
func ParsePosition(s string) (folder.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return folder.Position{}, fmt.Errorf("invalid position %q, expected x,y", s)
	}
	var p folder.Position
	for i, raw := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return folder.Position{}, fmt.Errorf("invalid position %q, expected x,y", s)
		}
		if i == 0 {
			p.X = v
		} else {
			p.Y = v
		}
	}
	return p, nil
}

// ParseOptional reads "x,y", returning nil for an empty string.
func ParseOptional(s string) (*folder.Position, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	p, err := ParsePosition(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
