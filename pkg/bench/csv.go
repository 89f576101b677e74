package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

var csvHeader = []string{
	"timestamp", "buffer", "geometry", "bursts", "beats",
	"stalls", "mismatches", "elapsed_seconds", "beats_per_second",
}

// AppendCSV appends r as one row to path, writing the header first when the
// file is new.
func (r Result) AppendCSV(path, buffer, geometry string) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if fresh {
		if err := writer.Write(csvHeader); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		time.Now().Format(time.RFC3339),
		buffer,
		geometry,
		fmt.Sprintf("%d", r.Bursts),
		fmt.Sprintf("%d", r.Beats),
		fmt.Sprintf("%d", r.Stalls),
		fmt.Sprintf("%d", r.Mismatches),
		fmt.Sprintf("%.3f", r.Duration.Seconds()),
		fmt.Sprintf("%.2f", r.Throughput),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
