package colors

// Default returns the default color scheme (purple theme)
func Default() *ColorScheme {
	return &ColorScheme{
		Preset: "default",

		// Primary
		Accent: "#874BFD",

		// Cards
		CardBorder:     "#585858",
		CardBackground: "#262626",
		ReplyBorder:    "#5F87D7",

		// Text
		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",
		Liked:  "#FF5F87",

		// Status
		InfoFg:    "#00AFFF",
		WarningFg: "#FFD700",
		ErrorFg:   "#FF0000",
	}
}
