// Package shell runs the interactive command loop: it reads keywords and
// arguments from a token stream, resolves paths against the session's
// working directory, calls into ops and prints the outcome.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"fex/internal/constants"
	apperrors "fex/internal/errors"
	"fex/internal/logging"
	"fex/internal/ops"
)

// Options controls the decorations around the command loop.
type Options struct {
	Prompt bool // print the prompt before each keyword
	Banner bool // print the banner once at start
}

// Shell is one interactive session.
type Shell struct {
	ops      *ops.Ops
	session  *Session
	tokens   *tokenReader
	out      io.Writer
	opts     Options
	log      *zap.Logger
	commands []*command
	byName   map[string]*command
}

// New creates a shell reading commands from in and writing results to out.
func New(o *ops.Ops, session *Session, in io.Reader, out io.Writer, opts Options, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Shell{
		ops:     o,
		session: session,
		tokens:  newTokenReader(in),
		out:     out,
		opts:    opts,
		log:     logger.Named("shell"),
	}
	s.commands = s.commandTable()
	s.byName = make(map[string]*command, len(s.commands))
	for _, c := range s.commands {
		s.byName[c.name] = c
	}
	return s
}

// Session returns the shell's session state.
func (s *Shell) Session() *Session {
	return s.session
}

// Run reads and executes commands until exit or end of input. It returns
// an error only when reading the input fails.
func (s *Shell) Run(ctx context.Context) error {
	if s.opts.Banner {
		s.println(constants.BannerLine)
		s.println(constants.BannerHint)
	}
	for {
		if s.opts.Prompt {
			s.printf("\n"+constants.Prompt, s.session.Cwd())
		}
		keyword, err := s.next()
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidArgument) {
				continue
			}
			return s.endOfInput(err)
		}
		done, err := s.dispatch(ctx, keyword)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// next reads one token. An overlong token is reported to the user and
// returned as an invalid-argument error; the caller drops what it was
// reading and carries on.
func (s *Shell) next() (string, error) {
	tok, err := s.tokens.Next()
	if errors.Is(err, apperrors.ErrInvalidArgument) {
		s.log.Debug("token rejected", zap.Error(err))
		s.printf("Input ignored: %s\n", reason(err))
	}
	return tok, err
}

// lookup finds the command for keyword.
func (s *Shell) lookup(keyword string) (*command, error) {
	cmd, ok := s.byName[keyword]
	if !ok {
		return nil, apperrors.NewUnknownCommandError(keyword)
	}
	return cmd, nil
}

// dispatch reads the arguments of keyword and runs it. done is true when
// the session should end.
func (s *Shell) dispatch(ctx context.Context, keyword string) (done bool, err error) {
	cmd, err := s.lookup(keyword)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCommand) {
			s.log.Debug("dispatch", zap.Error(err))
			s.println("Unknown command! Type 'help' for options.")
			return false, nil
		}
		return false, err
	}

	args := make([]string, 0, len(cmd.args))
	for range cmd.args {
		tok, err := s.next()
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			s.log.Debug("command dropped", zap.String("command", keyword), zap.Strings("args", args))
			return false, nil
		}
		if err != nil {
			s.log.Debug("input ended before arguments", zap.String("command", keyword), zap.Strings("args", args))
			return true, s.endOfInput(err)
		}
		args = append(args, tok)
	}

	s.log.Debug("command", zap.String("command", keyword), zap.Strings("args", args), zap.String("cwd", s.session.Cwd()))
	return cmd.run(ctx, args), nil
}

func (s *Shell) endOfInput(err error) error {
	if err != io.EOF {
		s.log.Error("reading input", zap.Error(err))
		return fmt.Errorf("reading commands: %w", err)
	}
	s.log.Debug("end of input")
	return nil
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
