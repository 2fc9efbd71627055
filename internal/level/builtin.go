package level

// DefaultID is the level used when none is configured.
const DefaultID = "classic"

func init() {
	Register("classic", func() *Level {
		return Grid("classic", "Classic", 7, 5)
	})

	Register("pyramid", func() *Level {
		return Parse("pyramid", "Pyramid", []string{
			"..#..",
			".###.",
			"#####",
			"#####",
		})
	})

	Register("checker", func() *Level {
		return Parse("checker", "Checkerboard", []string{
			"#.#.#",
			".#.#.",
			"#.#.#",
			".#.#.",
			"#.#.#",
		})
	})

	Register("striped", func() *Level {
		return Parse("striped", "Striped", []string{
			"#####",
			".....",
			"#####",
			".....",
			"#####",
		})
	})

	Register("single", func() *Level {
		return Parse("single", "Single Brick", []string{
			"..#..",
		})
	})
}
