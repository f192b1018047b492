package output

import (
	"io"
	"os"

	"github.com/masmgr/logospots/internal/scoring"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func reportTitle(mode scoring.RankMode) string {
	if mode == scoring.ModeRecommend {
		return "Logo Placement Recommendations"
	}
	return "Logo Rating Results"
}

// OpenOutputWriter returns stdout for an empty path, otherwise a created file the caller closes.
func OpenOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
