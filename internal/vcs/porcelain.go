package vcs

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/temirov/depaudit/internal/blame"
)

const (
	authorHeaderPrefixConstant       = "author "
	contentLinePrefixConstant        = "\t"
	commitHashLengthConstant         = 40
	porcelainHeaderFieldCountMinimum = 3
	malformedHeaderTemplateConstant  = "malformed blame header %q"
	scannerBufferLimitConstant       = 1024 * 1024
)

var errTruncatedPorcelain = errors.New("blame output ended before line content")

// ParseLinePorcelain converts `git blame --line-porcelain` output into records ordered by line number.
func ParseLinePorcelain(output string) ([]blame.Record, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBufferLimitConstant)

	var records []blame.Record
	var current *blame.Record
	for scanner.Scan() {
		line := scanner.Text()
		if current == nil {
			if len(strings.TrimSpace(line)) == 0 {
				continue
			}
			header, headerError := parseHeader(line)
			if headerError != nil {
				return nil, headerError
			}
			current = &header
			continue
		}

		switch {
		case strings.HasPrefix(line, contentLinePrefixConstant):
			current.LineText = strings.TrimPrefix(line, contentLinePrefixConstant)
			records = append(records, *current)
			current = nil
		case strings.HasPrefix(line, authorHeaderPrefixConstant):
			current.Author = strings.TrimPrefix(line, authorHeaderPrefixConstant)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	if current != nil {
		return nil, errTruncatedPorcelain
	}

	sort.SliceStable(records, func(left int, right int) bool {
		return records[left].LineNumber < records[right].LineNumber
	})
	return records, nil
}

func parseHeader(line string) (blame.Record, error) {
	fields := strings.Fields(line)
	if len(fields) < porcelainHeaderFieldCountMinimum || len(fields[0]) != commitHashLengthConstant {
		return blame.Record{}, fmt.Errorf(malformedHeaderTemplateConstant, line)
	}
	lineNumber, conversionError := strconv.Atoi(fields[2])
	if conversionError != nil {
		return blame.Record{}, fmt.Errorf(malformedHeaderTemplateConstant, line)
	}
	return blame.Record{CommitHash: fields[0], LineNumber: lineNumber}, nil
}
