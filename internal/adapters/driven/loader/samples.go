package loader

import "github.com/custodia-labs/sercha-research/internal/core/domain"

const (
	aiOverviewContent = "Artificial Intelligence (AI) refers to the simulation of human intelligence in machines " +
		"that are programmed to think and learn like humans. Machine learning is a subset " +
		"of artificial intelligence that provides machines with the ability to automatically learn " +
		"and improve from experience without being explicitly programmed.\n\n" +
		"Applications of AI include expert systems, natural language processing, speech recognition " +
		"and machine vision. AI is being used across various industries including healthcare, " +
		"finance, transportation, and entertainment."

	climateChangeContent = "Climate change refers to long-term shifts in global temperatures and weather patterns. " +
		"The primary cause is the increased emission of greenhouse gases, particularly carbon dioxide " +
		"from burning fossil fuels. These gases trap heat in Earth's atmosphere, leading to global " +
		"warming. Effects include rising sea levels, melting ice caps, extreme weather events, " +
		"and ecosystem disruption.\n\n" +
		"Mitigation strategies include transitioning to renewable energy sources, improving energy " +
		"efficiency, protecting forests, and developing carbon capture technologies."
)

// SampleDocuments returns the demo corpus. Each call returns fresh copies.
func SampleDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:      "ai_overview",
			Title:   "Introduction to Artificial Intelligence",
			Content: aiOverviewContent,
			Metadata: map[string]any{
				"category": "technology",
				"date":     "2024-01-15",
				"source":   "sample",
			},
		},
		{
			ID:      "climate_change",
			Title:   "Climate Change and Global Warming",
			Content: climateChangeContent,
			Metadata: map[string]any{
				"category": "environment",
				"date":     "2024-01-10",
				"source":   "sample",
			},
		},
	}
}
