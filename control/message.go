package control

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Verb names a control command.
type Verb string

const (
	VerbSend    Verb = "SEND"
	VerbReplace Verb = "REPLACE"
	VerbStop    Verb = "STOP"
	VerbStatus  Verb = "STATUS"
	VerbEncode  Verb = "ENCODE"
)

// Reply status words.
const (
	StatusOK    = "OK"
	StatusError = "ERR"
	StatusState = "STATE"
	StatusBits  = "BITS"
)

// Request is one command received from a client.
type Request struct {
	Verb Verb
	// Text is everything after the first space, untrimmed.
	Text string
}

// Response is one reply sent to a client.
type Response struct {
	Status string
	Detail string
}

// OK returns a success reply.
func OK(detail string) Response {
	return Response{Status: StatusOK, Detail: detail}
}

// Fail returns an error reply carrying err's message.
func Fail(err error) Response {
	return Response{Status: StatusError, Detail: err.Error()}
}

// Codec reads requests from and writes responses to a client stream.
//
// Decode reads from a length-limited reader, so an oversized request
// surfaces as ErrMessageTooLarge rather than unbounded buffering.
type Codec interface {
	Decode(r io.Reader) (Request, error)
	Encode(Response) ([]byte, error)
}

// LineCodec is the newline-delimited text protocol:
//
//	SEND <text>     OK <session> <bits>
//	REPLACE <text>  OK <session> <bits>
//	STOP            OK
//	STATUS          STATE <state> <sent>/<total> <last>
//	ENCODE <text>   BITS <0 and 1 characters>
//
// Failures reply "ERR <reason>". A trailing "\r" is ignored.
type LineCodec struct{}

// ErrEmptyLine is returned for a blank request line.
var ErrEmptyLine = errors.New("empty request")

func (LineCodec) Decode(r io.Reader) (Request, error) {
	line, err := readLine(r)
	if err != nil {
		return Request{}, err
	}
	return ParseRequest(line)
}

func (LineCodec) Encode(resp Response) ([]byte, error) {
	if strings.ContainsAny(resp.Detail, "\r\n") {
		resp.Detail = strings.NewReplacer("\r", " ", "\n", " ").Replace(resp.Detail)
	}

	var sb strings.Builder
	sb.WriteString(resp.Status)
	if resp.Detail != "" {
		sb.WriteByte(' ')
		sb.WriteString(resp.Detail)
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// ParseRequest splits a request line into its verb and text.
// The verb is case-insensitive; the text is kept as sent.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return Request{}, ErrEmptyLine
	}

	line = strings.TrimLeft(line, " \t")
	verb, text, _ := strings.Cut(line, " ")
	return Request{Verb: Verb(strings.ToUpper(verb)), Text: text}, nil
}

// readLine reads up to and excluding '\n'. Reading a byte at a time keeps
// the codec from consuming the next request; r is buffered underneath.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	var one [1]byte
	for {
		n, err := r.Read(one[:])
		if n == 1 {
			if one[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(one[0])
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
	}
}
