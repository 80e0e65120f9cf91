package main

import (
	"fmt"
	"io"

	"swipe-market/internal/domain"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

func printReport(w io.Writer, product domain.Product, test domain.SyntheticTest) {
	r := test.Results
	fmt.Fprintf(w, "%s[Product]%s %s: %s\n", colorCyan, colorReset, product.Title, product.Pitch)
	fmt.Fprintf(w, "Personas: %d | Time: %ds\n\n", test.PersonaCount, test.ProcessingTimeSeconds)

	fmt.Fprintln(w, "==== Rates ====")
	fmt.Fprintf(w, "Like: %.1f%% | Super like: %.1f%% | Pass: %.1f%%\n", r.LikeRate, r.SuperLikeRate, r.PassRate)
	fmt.Fprintf(w, "Sentiment: +%.1f / =%.1f / -%.1f\n\n",
		r.SentimentAnalysis.Positive, r.SentimentAnalysis.Neutral, r.SentimentAnalysis.Negative)

	fmt.Fprintln(w, "==== Top concerns ====")
	if len(r.TopConcerns) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for i, c := range r.TopConcerns {
		fmt.Fprintf(w, "  %d. %s\n", i+1, c)
	}

	fmt.Fprintf(w, "\n%s==== Recommendations ====%s\n", colorGreen, colorReset)
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}
