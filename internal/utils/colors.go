package utils

type colors struct {
	c map[string]int
}

var Colors = colors{
	c: map[string]int{
		"Tea green":     0xd4e4bc,
		"Honolulu Blue": 0x2176ae,
		"Rusty red":     0xd33f49,
		"UT orange":     0xff8811,
		"Slate":         0x2b2d31,
	},
}

// Ok returns the color code for success messages
func (c colors) Ok() int {
	return c.c["Tea green"]
}

// Info returns the color code for informational messages
func (c colors) Info() int {
	return c.c["Honolulu Blue"]
}

// Error returns the color code for error messages
func (c colors) Error() int {
	return c.c["Rusty red"]
}

// Warning returns the color code for warning messages
func (c colors) Warning() int {
	return c.c["UT orange"]
}

// Base returns the neutral color used for notice embeds
func (c colors) Base() int {
	return c.c["Slate"]
}
