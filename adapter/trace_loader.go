package adapter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/evoss98/ns-3-dev-git/domain"
)

const (
	minTraceFields = 3
	maxTraceLine   = 1 << 20
)

// TraceRepository reads a receive trace, one "timestamp,port,size[,sourceIP,...]"
// record per line. Fields are split on every comma; there is no quoting.
type TraceRepository struct {
	filename string
	file     *os.File
	scanner  *bufio.Scanner
	line     int
}

func NewTraceRepository(filename string) (*TraceRepository, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTraceLine)

	return &TraceRepository{
		filename: filename,
		file:     file,
		scanner:  scanner,
	}, nil
}

func (r *TraceRepository) Close() error {
	return r.file.Close()
}

func (r *TraceRepository) NextPacket() (*domain.PacketRecord, error) {
	var content string
	for {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, &domain.ParseError{
					File: r.filename,
					Line: r.line + 1,
					Err:  fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err),
				}
			}
			return nil, nil
		}
		r.line++
		content = strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(content) != "" {
			break
		}
	}

	origin := domain.RecordOrigin{
		File:    r.filename,
		Line:    r.line,
		Content: content,
	}
	fail := func(format string, args ...any) error {
		return &domain.ParseError{
			File:    origin.File,
			Line:    origin.Line,
			Content: origin.Content,
			Err:     fmt.Errorf("%w: "+format, append([]any{domain.ErrMalformedRecord}, args...)...),
		}
	}

	record := strings.Split(content, ",")
	if len(record) < minTraceFields {
		return nil, fail("expected at least %d fields, got %d", minTraceFields, len(record))
	}
	port, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return nil, fail("port %q is not an integer", record[1])
	}
	size, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fail("size %q is not an integer", record[2])
	}

	pkt := &domain.PacketRecord{
		TimestampRaw: strings.TrimSpace(record[0]),
		Port:         port,
		SizeBytes:    size,
		Origin:       origin,
	}
	if len(record) > minTraceFields {
		pkt.SourceIP = strings.TrimSpace(record[3])
	}
	return pkt, nil
}
