package shell

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"fex/internal/constants"
	apperrors "fex/internal/errors"
	"fex/internal/fileinfo"
	"fex/internal/ops"
)

// command is one keyword of the shell. run returns true to end the session.
type command struct {
	name string
	args []string // placeholders shown by help; their count is the arity
	desc string
	run  func(ctx context.Context, args []string) bool
}

func (c *command) usage() string {
	if len(c.args) == 0 {
		return c.name
	}
	return c.name + " " + strings.Join(c.args, " ")
}

func (s *Shell) commandTable() []*command {
	return []*command{
		{name: "ls", desc: "List files and directories", run: s.cmdList},
		{name: "cd", args: []string{"<dir>"}, desc: "Change directory", run: s.cmdChdir},
		{name: "create", args: []string{"<file>"}, desc: "Create a file", run: s.cmdCreate},
		{name: "delete", args: []string{"<file/dir>"}, desc: "Delete file or directory", run: s.cmdDelete},
		{name: "copy", args: []string{"<src>", "<dest>"}, desc: "Copy file or folder", run: s.cmdCopy},
		{name: "move", args: []string{"<src>", "<dest>"}, desc: "Move or rename file/folder", run: s.cmdMove},
		{name: "search", args: []string{"<filename>"}, desc: "Search file recursively", run: s.cmdSearch},
		{name: "chmod", args: []string{"<file>", "<mode>"}, desc: "Change file permission (octal)", run: s.cmdChmod},
		{name: "pwd", desc: "Print the current directory", run: s.cmdPwd},
		{name: "mkdir", args: []string{"<dir>"}, desc: "Create a directory", run: s.cmdMkdir},
		{name: "find", args: []string{"<pattern>"}, desc: "Find paths matching a glob (** allowed)", run: s.cmdFind},
		{name: "info", args: []string{"<name>"}, desc: "Show details of a file or directory", run: s.cmdInfo},
		{name: "peek", args: []string{"<archive>"}, desc: "List the contents of an archive", run: s.cmdPeek},
		{name: "history", desc: "Show visited directories", run: s.cmdHistory},
		{name: "help", desc: "Show available commands", run: s.cmdHelp},
		{name: "exit", desc: "Quit program", run: s.cmdExit},
	}
}

func (s *Shell) cmdList(_ context.Context, _ []string) bool {
	cwd := s.session.Cwd()
	files, err := s.ops.List(cwd)
	if err != nil {
		s.printf("Error listing directory: %s\n", reason(err))
		return false
	}
	s.printf("\nContents of \"%s\":\n", cwd)
	for _, f := range files {
		tag := constants.FileTag
		if f.IsDir {
			tag = constants.DirTag
		}
		s.println(tag + f.Name)
	}
	return false
}

func (s *Shell) cmdChdir(_ context.Context, args []string) bool {
	target := s.session.Resolve(args[0])
	if !fileinfo.IsDir(s.ops.VFS(), target) {
		s.log.Debug("cd rejected", zap.String("path", target))
		s.println("Invalid directory.")
		return false
	}
	s.session.Chdir(target)
	return false
}

func (s *Shell) cmdCreate(_ context.Context, args []string) bool {
	path := s.session.Resolve(args[0])
	if err := s.ops.Create(path); err != nil {
		s.printf("Error creating file: %s\n", reason(err))
		return false
	}
	s.printf("File created: %s\n", fileinfo.BaseName(path))
	return false
}

func (s *Shell) cmdDelete(_ context.Context, args []string) bool {
	path := s.session.Resolve(args[0])
	if fileinfo.Contains(path, s.session.Cwd()) {
		s.println("Cannot delete the current directory or one of its parents.")
		return false
	}
	err := s.ops.Delete(path)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		s.println("File or directory not found!")
	case err != nil:
		s.printf("Error deleting: %s\n", reason(err))
	default:
		s.printf("Deleted: %s\n", fileinfo.BaseName(path))
	}
	return false
}

func (s *Shell) cmdCopy(_ context.Context, args []string) bool {
	src, dest := s.session.Resolve(args[0]), s.session.Resolve(args[1])
	if err := s.ops.Copy(src, dest); err != nil {
		s.printf("Error copying file: %s\n", reason(err))
		return false
	}
	s.printf("Copied %s to %s\n", fileinfo.BaseName(src), dest)
	return false
}

func (s *Shell) cmdMove(_ context.Context, args []string) bool {
	src, dest := s.session.Resolve(args[0]), s.session.Resolve(args[1])
	if fileinfo.Contains(src, s.session.Cwd()) {
		s.println("Cannot move the current directory or one of its parents.")
		return false
	}
	if err := s.ops.Move(src, dest); err != nil {
		s.printf("Error moving file: %s\n", reason(err))
		return false
	}
	s.printf("Moved %s to %s\n", fileinfo.BaseName(src), dest)
	return false
}

func (s *Shell) cmdSearch(_ context.Context, args []string) bool {
	name, root := args[0], s.session.Cwd()
	s.printf("Searching for \"%s\" in \"%s\"...\n", name, root)
	res, err := s.ops.Search(root, name)
	if err != nil {
		s.printf("Error searching: %s\n", reason(err))
		return false
	}
	s.warnSkipped(res)
	for _, m := range res.Matches {
		s.printf("Found at: \"%s\"\n", m)
	}
	if !res.Found() {
		s.printf("No file named \"%s\" found.\n", name)
	}
	return false
}

func (s *Shell) cmdChmod(_ context.Context, args []string) bool {
	path := s.session.Resolve(args[0])
	mode, err := ops.ParseMode(args[1])
	if err != nil {
		s.println("Invalid permission format. Use octal (e.g., 644).")
		return false
	}
	if err := s.ops.ChangePermissions(path, mode); err != nil {
		s.printf("Error changing permissions: %s\n", reason(err))
		return false
	}
	s.printf("Permissions updated for: %s\n", fileinfo.BaseName(path))
	return false
}

func (s *Shell) cmdPwd(_ context.Context, _ []string) bool {
	s.println(s.session.Cwd())
	return false
}

func (s *Shell) cmdMkdir(_ context.Context, args []string) bool {
	path := s.session.Resolve(args[0])
	if err := s.ops.Mkdir(path); err != nil {
		s.printf("Error creating directory: %s\n", reason(err))
		return false
	}
	s.printf("Directory created: %s\n", fileinfo.BaseName(path))
	return false
}

func (s *Shell) cmdFind(_ context.Context, args []string) bool {
	pattern, root := args[0], s.session.Cwd()
	res, err := s.ops.Find(root, pattern)
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		s.printf("Invalid pattern: %s\n", pattern)
		return false
	case err != nil:
		s.printf("Error searching: %s\n", reason(err))
		return false
	}
	s.warnSkipped(res)
	for _, m := range res.Matches {
		s.println(m)
	}
	if !res.Found() {
		s.printf("Nothing matches \"%s\".\n", pattern)
	}
	return false
}

func (s *Shell) cmdInfo(_ context.Context, args []string) bool {
	path := s.session.Resolve(args[0])
	info, err := s.ops.Info(path)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		s.println("File or directory not found!")
		return false
	case err != nil:
		s.printf("Error reading info: %s\n", reason(err))
		return false
	}

	s.printf("Name:     %s\n", info.Name)
	s.printf("Path:     %s\n", info.Path)
	s.printf("Type:     %s\n", info.FileType)
	if !info.IsDir {
		s.printf("Size:     %s\n", fileinfo.FormatFileSize(info.Size))
	}
	s.printf("Mode:     %s\n", info.Mode)
	s.printf("Modified: %s\n", info.Modified.Format("2006-01-02 15:04:05"))
	if info.LinkTarget != "" {
		s.printf("Target:   %s\n", info.LinkTarget)
	}
	if info.ContentType != "" {
		s.printf("Content:  %s\n", info.ContentType)
	}
	return false
}

func (s *Shell) cmdPeek(ctx context.Context, args []string) bool {
	path := s.session.Resolve(args[0])
	ext, entries, err := s.ops.Peek(ctx, path)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		s.println("File or directory not found!")
		return false
	case errors.Is(err, apperrors.ErrInvalidArgument):
		s.printf("Not a listable archive: %s\n", fileinfo.BaseName(path))
		return false
	case err != nil:
		s.printf("Error reading archive: %s\n", reason(err))
		return false
	}

	s.printf("\nContents of \"%s\" (%s):\n", path, ext)
	for _, e := range entries {
		if e.IsDir {
			s.println(constants.DirTag + e.Name)
			continue
		}
		s.printf("%s%s (%s)\n", constants.FileTag, e.Name, fileinfo.FormatFileSize(e.Size))
	}
	return false
}

func (s *Shell) cmdHistory(_ context.Context, _ []string) bool {
	history := s.session.History()
	if len(history) == 0 {
		s.println("No directories visited yet.")
		return false
	}
	for i, p := range history {
		s.printf("%3d  %s\n", i+1, p)
	}
	return false
}

func (s *Shell) cmdHelp(_ context.Context, _ []string) bool {
	s.println("\nAvailable commands:")
	for _, c := range s.commands {
		s.printf("%-20s - %s\n", c.usage(), c.desc)
	}
	s.println("\nArguments are separated by whitespace; names containing spaces cannot be entered.")
	return false
}

func (s *Shell) cmdExit(_ context.Context, _ []string) bool {
	s.println(constants.ExitMessage)
	return true
}

func (s *Shell) warnSkipped(res ops.SearchResult) {
	if len(res.Skipped) > 0 {
		s.log.Warn("skipped unreadable directories", zap.String("root", res.Root), zap.Strings("paths", res.Skipped))
	}
}

// reason extracts the user-facing text of an operation error.
func reason(err error) string {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return ae.Reason()
	}
	return err.Error()
}
