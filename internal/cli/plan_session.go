package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/planner"
)

const planHelp = `Commands:
  find <text>     list sections whose code or label matches
  add <id>...     add sections, e.g. add MATH101-1
  rm <id>         remove a section
  list            show the current plan
  done            finish`

// PlanSession edits a planner.Plan from line commands.
type PlanSession struct {
	reader  *LineReader
	writer  io.Writer
	plan    *planner.Plan
	options []planner.SectionOption
}

// NewPlanSession creates a session choosing among options.
func NewPlanSession(in io.Reader, out io.Writer, plan *planner.Plan, options []planner.SectionOption) *PlanSession {
	return &PlanSession{
		reader:  NewLineReader(in),
		writer:  out,
		plan:    plan,
		options: options,
	}
}

// Run reads commands until "done" or the end of input.
func (s *PlanSession) Run(ctx context.Context) error {
	s.println(FormatInfo(fmt.Sprintf("%d sections available. Type help for commands.", len(s.options))))
	for {
		s.print(FormatPrompt("plan"))
		line, err := s.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, args, _ := strings.Cut(line, " ")
		args = strings.TrimSpace(args)
		switch strings.ToLower(cmd) {
		case "":
		case "help", "?":
			s.println(planHelp)
		case "find":
			s.find(args)
		case "add":
			s.add(strings.Fields(args))
		case "rm", "remove":
			s.remove(args)
		case "list", "ls":
			s.list()
		case "done", "quit", "exit":
			return nil
		default:
			s.println(FormatWarning("unknown command " + cmd))
		}
	}
}

func (s *PlanSession) find(query string) {
	re := common.SearchPattern(query)
	shown := 0
	for _, opt := range s.options {
		if !common.MatchAny(re, opt.ID, opt.Label) {
			continue
		}
		line := opt.ID + "  " + SubtleStyle.Render(meetingSummary(opt))
		if reason := planner.ConflictReason(opt, s.plan.Chosen()); reason != "" {
			line += "  " + WarningStyle.Render("("+reason+")")
		}
		s.println(line)
		shown++
	}
	if shown == 0 {
		s.println(FormatInfo("no sections match"))
	}
}

func (s *PlanSession) add(ids []string) {
	if len(ids) == 0 {
		s.println(FormatWarning("add needs a section id"))
		return
	}
	for _, id := range ids {
		if err := s.plan.PickIDs(s.options, []string{id}); err != nil {
			s.println(FormatWarning(err.Error()))
			continue
		}
		chosen := s.plan.Chosen()
		s.println(FormatSuccess("added " + chosen[len(chosen)-1].Label))
	}
}

func (s *PlanSession) remove(id string) {
	for _, c := range s.plan.Chosen() {
		if strings.EqualFold(c.ID, id) {
			s.plan.Remove(c.ID)
			s.println(FormatSuccess("removed " + c.Label))
			return
		}
	}
	s.println(FormatWarning(fmt.Sprintf("%s is not in the plan", id)))
}

func (s *PlanSession) list() {
	chosen := s.plan.Chosen()
	if len(chosen) == 0 {
		s.println(FormatInfo("the plan is empty"))
		return
	}
	rows := make([][]string, len(chosen))
	for i, c := range chosen {
		exam := ""
		if c.Exam != nil {
			exam = c.Exam.Date + " " + c.Exam.Start + "-" + c.Exam.End
		}
		rows[i] = []string{c.ID, meetingSummary(c), exam}
	}
	s.println(RenderTable([]string{"Section", "Meetings", "Exam"}, rows))
}

func meetingSummary(opt planner.SectionOption) string {
	parts := make([]string, len(opt.Slots))
	for i, m := range opt.Slots {
		parts[i] = m.Day + " " + m.Start + "-" + m.End
	}
	return strings.Join(parts, ", ")
}

func (s *PlanSession) print(text string) {
	_, _ = fmt.Fprint(s.writer, text)
}

func (s *PlanSession) println(text string) {
	_, _ = fmt.Fprintln(s.writer, text)
}
