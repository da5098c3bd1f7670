package vision

import "context"

type Analyzer interface {
	// AnalyzeImage sends the query together with an encoded image and
	// returns the model's reply verbatim.
	AnalyzeImage(ctx context.Context, query, imageDataURL string) (string, error)
}
