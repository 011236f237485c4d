package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"stock_charts/internal/feature/marketdata/domain"
	"stock_charts/internal/feature/marketdata/domain/entity"
)

// Source はディレクトリ内の銘柄別CSVファイル（<SYMBOL>.csv）を読み込む
// シリーズソースです。
type Source struct {
	dir string
}

// NewSource は指定ディレクトリを参照するSourceを生成します。
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Load は銘柄のCSVファイルを読み込み、検証済みのTimeSeriesを返します。
// ファイルが存在しない場合はErrSourceNotFoundを返します。
func (s *Source) Load(ctx context.Context, symbol string) (entity.TimeSeries, error) {
	path := filepath.Join(s.dir, symbol+".csv")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.TimeSeries{}, fmt.Errorf("%s: %w", path, domain.ErrSourceNotFound)
		}
		return entity.TimeSeries{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close csv file", "path", path, "error", err)
		}
	}()

	return Load(symbol, readRows(f, path))
}

// readRows はCSVを1行ずつ読み込みます。パースできない行は読み飛ばし、
// 読めた行だけを返します（行単位の部分失敗を許容する）。
func readRows(f io.Reader, path string) [][]string {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				slog.Warn("skipping malformed csv line", "path", path, "line", pe.Line)
				continue
			}
			// 破損が行単位で特定できない場合はそこまでの行で打ち切る
			slog.Warn("csv read aborted", "path", path, "error", err)
			break
		}
		rows = append(rows, row)
	}
	return rows
}
