package recipients

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// Entry is one line of the recipients CSV file (header: name,email).
type Entry struct {
	Name  string `csv:"name"`
	Email string `csv:"email"`
}

func LoadCSV(r io.Reader) (Directory, error) {
	var entries []Entry
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return nil, fmt.Errorf("parse recipients csv: %w", err)
	}
	dir := make(Directory, len(entries))
	for _, entry := range entries {
		dir.Add(entry.Name, entry.Email)
	}
	return dir, nil
}

func LoadCSVFile(path string) (Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}
