package circadian

// Built-in mode content. Generic on purpose: not tied to any specific
// agent, overridable through the With* setters.

func defaultSuggestions() map[Mode][]Suggestion {
	return map[Mode][]Suggestion{
		Morning: {
			{Type: "check_inputs", Message: "Check incoming messages and notifications", Priority: "high"},
			{Type: "review", Message: "Review overnight events", Priority: "normal"},
		},
		Afternoon: {
			{Type: "work", Message: "Continue active tasks", Priority: "high"},
			{Type: "create", Message: "Focus on creative work", Priority: "normal"},
		},
		Evening: {
			{Type: "reflect", Message: "Reflect on today's activities", Priority: "high"},
			{Type: "organize", Message: "Organize notes and records", Priority: "normal"},
		},
		Night: {
			{Type: "consolidate", Message: "Run memory consolidation", Priority: "high"},
			{Type: "rest", Message: "Reduce activity level", Priority: "low"},
		},
	}
}

func defaultActivities() map[Mode][]string {
	return map[Mode][]string{
		Morning:   {"Check notifications", "Review agenda", "Process inbox"},
		Afternoon: {"Deep work", "Problem solving", "Implementation"},
		Evening:   {"Daily review", "Note taking", "Planning tomorrow"},
		Night:     {"Memory consolidation", "Background processing", "Quiet reflection"},
	}
}

func defaultModeMeta() map[Mode]ModeMeta {
	return map[Mode]ModeMeta{
		Morning: {
			Name:        "Morning",
			Icon:        "\U0001f305",
			Description: "Information gathering and external checks",
			EnergyLevel: "rising",
		},
		Afternoon: {
			Name:        "Afternoon",
			Icon:        "☀️",
			Description: "Deep work and implementation",
			EnergyLevel: "peak",
		},
		Evening: {
			Name:        "Evening",
			Icon:        "\U0001f306",
			Description: "Reflection and organizing",
			EnergyLevel: "declining",
		},
		Night: {
			Name:        "Night",
			Icon:        "\U0001f319",
			Description: "Memory consolidation and quiet thought",
			EnergyLevel: "low",
		},
	}
}
