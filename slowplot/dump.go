package slowplot

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var logger = log.New(os.Stderr, "", 0)

// ReadDump reads a "length rtt_usec" dump file and merges its samples into
// data. Blank lines and lines starting with '#' are ignored; malformed lines
// are logged and skipped. Calling ReadDump repeatedly merges multiple files
// into one Dataset.
func ReadDump(path string, data *Dataset) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "could not open dump file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			logger.Printf("Line too short (need at least 2 columns): '%s'\n", line)
			continue
		}

		length, err := strconv.Atoi(fields[0])
		if err != nil {
			logger.Printf("Unparseable message length in line: '%s'\n", line)
			continue
		}
		usec, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			logger.Printf("Unparseable RTT in line: '%s'\n", line)
			continue
		}

		data.RTTs[length] = append(data.RTTs[length], usec)
		data.Counts[length] += 1
		data.TotalMessages += 1
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "could not read dump file %s", path)
	}

	return nil
}

// ReadDumpGlob merges every file matching pattern into data, in sorted glob
// order, announcing each file on printer.
func ReadDumpGlob(pattern string, data *Dataset, printer *log.Logger) error {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return errors.Wrapf(err, "bad dump file pattern %s", pattern)
	}

	for _, path := range paths {
		printer.Printf("Reading data from %s\n", path)
		if err := ReadDump(path, data); err != nil {
			return err
		}
	}

	return nil
}
