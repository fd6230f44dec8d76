// Package manifest records what happened to every game of a run in a
// Parquet sidecar file.
package manifest

import (
	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// Status of a game after the run.
const (
	Encoded  = "encoded"
	Rejected = "rejected"
	Skipped  = "skipped"
)

// Entry is one manifest row. Ratings are -1 when the tag was missing or
// unreadable.
type Entry struct {
	Ordinal     int64  `parquet:"name=ordinal, type=INT64"`
	Line        int64  `parquet:"name=line, type=INT64"`
	WhiteRating int32  `parquet:"name=white_rating, type=INT32"`
	BlackRating int32  `parquet:"name=black_rating, type=INT32"`
	Qualifying  bool   `parquet:"name=qualifying, type=BOOLEAN"`
	Moves       int32  `parquet:"name=moves, type=INT32"`
	Encoded     int32  `parquet:"name=encoded, type=INT32"`
	Status      string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	Reason      string `parquet:"name=reason, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Write drains entries into a snappy compressed Parquet file at path.
func Write(path string, entries <-chan Entry, parallel int64) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Wrapf(err, "create manifest %s", path)
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(Entry), parallel)
	if err != nil {
		return errors.Wrap(err, "parquet writer")
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for e := range entries {
		if err := parquetWriter.Write(e); err != nil {
			return errors.Wrapf(err, "write manifest entry %d", e.Ordinal)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return errors.Wrap(err, "finish manifest")
	}
	return fileWriter.Close()
}

// Read loads every entry of the manifest at path.
func Read(path string, parallel int64) ([]Entry, error) {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open manifest %s", path)
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(Entry), parallel)
	if err != nil {
		return nil, errors.Wrap(err, "parquet reader")
	}
	defer parquetReader.ReadStop()

	entries := make([]Entry, int(parquetReader.GetNumRows()))
	if len(entries) == 0 {
		return entries, nil
	}
	if err := parquetReader.Read(&entries); err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	return entries, nil
}
