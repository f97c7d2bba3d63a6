// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Loader is a single pass loader for Divarema source text.
type Loader struct {
	Verbose bool // If set, verbosely logs the loader actions.

	predefine map[string]string // Predefines
	Label     map[string]uint   // Map of labels to instruction indexes.
	Equate    map[string]string // Map of equates.
}

// link is an instruction whose argument is a label not yet defined.
type link struct {
	index  int
	label  string
	lineno int
	line   string
}

// Predefine defines a new equate or redefines an existing equate.
func (ld *Loader) Predefine(equ string, value string) {
	if ld.predefine == nil {
		ld.predefine = map[string]string{equ: value}
	} else {
		ld.predefine[equ] = value
	}
}

// ParseLine parses a single 'OPCODE ARG' line with no loader extensions.
func ParseLine(line string) (in Instruction, err error) {
	return parseWords(strings.Fields(line))
}

// parseWords converts an opcode word and a decimal argument word.
// Words after the argument are ignored.
func parseWords(words []string) (in Instruction, err error) {
	if len(words) == 0 {
		err = ErrMissingOpcode
		return
	}

	op, ok := ParseOp(words[0])
	if !ok {
		err = ErrInvalidOpcode
		return
	}

	if len(words) < 2 {
		err = ErrMissingArgument
		return
	}

	arg, err := strconv.ParseUint(words[1], 10, 0)
	if err != nil {
		err = ErrInvalidArgument
		return
	}

	in = Instruction{Op: op, Arg: uint(arg)}
	return
}

// parenEval does compile-time $(...) evaluations over the numeric
// equates and the labels defined so far.
func (ld *Loader) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range ld.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Non-integer equates may be labels or opcodes.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, ip := range ld.Label {
		pred[key] = starlark.MakeUint(ip)
	}

	prog := "rc=" + expr + "\n"
	dict, _err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if _err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// expand performs $() evaluation and equate substitution on a line.
func (ld *Loader) expand(line string, lineno int) (words []string, err error) {
	ld.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := ld.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	for n, word := range words {
		equate, ok := ld.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
//
// Blank, comment-only and label-only lines are skipped, so Parse never
// returns ErrMissingOpcode; only ParseLine reports an empty line that way.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var links []link

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	ld.Label = make(map[string]uint, 16)
	ld.Equate = maps.Clone(sysEquate)
	for attr, val := range ld.predefine {
		ld.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if ld.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = ld.expand(line, lineno)
		if err != nil {
			return
		}

		if len(words) == 0 {
			continue
		}

		// .equ NAME VALUE
		if words[0] == ".equ" {
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
			name := strings.Fields(line)[1]
			_, ok := ld.Equate[name]
			if ok {
				err = ErrEquateDuplicate
				return
			}
			ld.Equate[name] = words[2]
			continue
		}

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := words[0][:len(words[0])-1]
			if !reLabel.MatchString(label) {
				err = ErrInvalidOpcode
				return
			}
			_, ok := ld.Label[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			ld.Label[label] = uint(len(prog.Statements))
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		if len(words) >= 2 {
			ip, ok := ld.Label[words[1]]
			switch {
			case ok:
				words[1] = fmt.Sprintf("%d", ip)
			case reLabel.MatchString(words[1]):
				links = append(links, link{
					index:  len(prog.Statements),
					label:  words[1],
					lineno: lineno,
					line:   line,
				})
				words[1] = "0"
			}
		}

		var in Instruction
		in, err = parseWords(words)
		if err != nil {
			return
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo:      lineno,
			Words:       words,
			Instruction: in,
		})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of forward labels.
	for _, ln := range links {
		ip, ok := ld.Label[ln.label]
		if !ok {
			lineno = ln.lineno
			line = ln.line
			err = ErrLabelMissing(ln.label)
			return
		}
		st := &prog.Statements[ln.index]
		st.Arg = ip
		st.Words[1] = fmt.Sprintf("%d", ip)
	}

	return
}
