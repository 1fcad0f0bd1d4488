package modules

import (
	"fmt"
	"strconv"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/heightmap"
	"heightmap-converter/internal/job"
)

// RegisterModifiers adds the built-in heightmap modifications.
func RegisterModifiers(reg *command.Registry) error {
	mods := []command.ModifierCommand{
		{
			Spec:  command.Spec{Name: "offset", Description: "Add a constant to every height", Args: "<amount>"},
			Build: buildOffset,
		},
		{
			Spec:  command.Spec{Name: "scale", Description: "Multiply every height by a factor", Args: "<factor>"},
			Build: buildScale,
		},
		{
			Spec:  command.Spec{Name: "clamp", Description: "Limit heights to a range", Args: "<min> <max>"},
			Build: buildClamp,
		},
		{
			Spec:  command.Spec{Name: "invert", Description: "Flip heights within their range"},
			Build: buildInvert,
		},
	}
	for _, m := range mods {
		if err := reg.RegisterModifier(m); err != nil {
			return err
		}
	}
	return nil
}

func buildOffset(_ *command.Env, args []string) (job.Modifier, error) {
	vals, err := parseFloats(args, 1)
	if err != nil {
		return nil, err
	}
	return heightmap.Offset{Amount: vals[0]}, nil
}

func buildScale(_ *command.Env, args []string) (job.Modifier, error) {
	vals, err := parseFloats(args, 1)
	if err != nil {
		return nil, err
	}
	return heightmap.Scale{Factor: vals[0]}, nil
}

func buildClamp(_ *command.Env, args []string) (job.Modifier, error) {
	vals, err := parseFloats(args, 2)
	if err != nil {
		return nil, err
	}
	c, err := heightmap.NewClamp(vals[0], vals[1])
	if err != nil {
		return nil, err
	}
	return c, nil
}

func buildInvert(_ *command.Env, args []string) (job.Modifier, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("too many arguments")
	}
	return heightmap.Invert{}, nil
}

func parseFloats(args []string, want int) ([]float64, error) {
	if len(args) < want {
		return nil, fmt.Errorf("not enough arguments")
	}
	if len(args) > want {
		return nil, fmt.Errorf("too many arguments")
	}
	out := make([]float64, want)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}
