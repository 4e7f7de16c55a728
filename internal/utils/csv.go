package utils

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"macdStreamBot/internal/domain"
)

// WriteSamplesToCSV dumps a price series to a CSV file, one row per sample.
func WriteSamplesToCSV(series domain.PriceSeries, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"timestamp", "symbol", "price"})
	for _, s := range series {
		writer.Write([]string{
			s.Timestamp.Format(time.RFC3339),
			s.Symbol,
			strconv.FormatFloat(s.Price, 'f', -1, 64),
		})
	}
	return writer.Error()
}

// TickWriter appends one CSV row per emitted streaming record.
type TickWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewTickWriter creates the file and writes the header row.
func NewTickWriter(filename string) (*TickWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"timestamp", "symbol", "price", "macd", "signal", "histogram", "classification"}); err != nil {
		file.Close()
		return nil, err
	}
	writer.Flush()
	return &TickWriter{file: file, writer: writer}, nil
}

// Append writes one tick record.
func (t *TickWriter) Append(symbol string, price float64, res domain.MACDResult, signal domain.Signal) error {
	err := t.writer.Write([]string{
		res.Timestamp.Format(time.RFC3339),
		symbol,
		strconv.FormatFloat(price, 'f', -1, 64),
		strconv.FormatFloat(res.MACDLine, 'f', -1, 64),
		strconv.FormatFloat(res.SignalLine, 'f', -1, 64),
		strconv.FormatFloat(res.Histogram, 'f', -1, 64),
		string(signal),
	})
	if err != nil {
		return err
	}
	t.writer.Flush()
	return t.writer.Error()
}

// Close flushes and closes the underlying file.
func (t *TickWriter) Close() error {
	t.writer.Flush()
	return t.file.Close()
}
