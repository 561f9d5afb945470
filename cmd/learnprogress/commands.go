package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"learnprogress/internal/app"
	"learnprogress/internal/progress"
	"learnprogress/internal/reminder"
	"learnprogress/internal/workbook"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var sessions bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show overall progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				if sessions {
					return printSessions(cmd.OutOrStdout(), a.Progress().StudySessions())
				}
				m := a.Progress().Metrics()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Overall completion\t%d%%\n", m.OverallCompletion)
				fmt.Fprintf(w, "Lessons\t%d started, %d completed\n", m.LessonsStarted, m.LessonsCompleted)
				fmt.Fprintf(w, "Streak\t%d day(s), longest %d\n", m.StreakDays, m.LongestStreak)
				fmt.Fprintf(w, "Vocabulary\t%d terms, %d mastered, %d due\n", m.VocabularyTotal, m.VocabularyMastered, m.VocabularyDue)
				fmt.Fprintf(w, "Exercises\t%d attempts, %.0f%% accuracy\n", m.ExerciseAttempts, m.ExerciseAccuracy*100)
				fmt.Fprintf(w, "Study time\t%d min over %d day(s)\n", m.TotalStudyTime, m.StudySessions)
				fmt.Fprintf(w, "Achievements\t%d\n", m.AchievementsUnlocked)
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&sessions, "sessions", false, "list per-day study records instead")
	return cmd
}

func printSessions(out io.Writer, sessions []progress.StudySession) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE	MINUTES	LESSONS	EXERCISES	VOCABULARY")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", s.Date, s.Duration, s.LessonsStudied, s.ExercisesCompleted, s.VocabularyReviewed)
	}
	return w.Flush()
}

func newLessonCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "lesson", Short: "Record lesson progress"}

	var course string
	start := &cobra.Command{
		Use:   "start <lesson-id>",
		Short: "Mark a lesson as started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.mutate(cmd, func(s *progress.Store) error {
				s.MarkLessonStarted(args[0], course)
				return nil
			})
		},
	}
	start.Flags().StringVar(&course, "course", "", "course the lesson belongs to")

	progressCmd := &cobra.Command{
		Use:   "progress <lesson-id> <percent>",
		Short: "Set lesson completion percentage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be an integer: %w", err)
			}
			return flags.mutate(cmd, func(s *progress.Store) error {
				if _, ok := s.Lesson(args[0]); !ok {
					return unknownLesson(args[0])
				}
				s.UpdateLessonProgress(args[0], pct)
				return nil
			})
		},
	}

	complete := &cobra.Command{
		Use:   "complete <lesson-id>",
		Short: "Mark a lesson as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.mutate(cmd, func(s *progress.Store) error {
				if _, ok := s.Lesson(args[0]); !ok {
					return unknownLesson(args[0])
				}
				s.MarkLessonCompleted(args[0])
				return nil
			})
		},
	}

	var off bool
	bookmark := &cobra.Command{
		Use:   "bookmark <lesson-id>",
		Short: "Bookmark a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.mutate(cmd, func(s *progress.Store) error {
				if _, ok := s.Lesson(args[0]); !ok {
					return unknownLesson(args[0])
				}
				s.BookmarkLesson(args[0], !off)
				return nil
			})
		},
	}
	bookmark.Flags().BoolVar(&off, "off", false, "remove the bookmark")

	note := &cobra.Command{
		Use:   "note <lesson-id> <text>...",
		Short: "Append a note to a lesson",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.mutate(cmd, func(s *progress.Store) error {
				if _, ok := s.Lesson(args[0]); !ok {
					return unknownLesson(args[0])
				}
				s.AddLessonNote(args[0], strings.Join(args[1:], " "))
				return nil
			})
		},
	}

	watch := &cobra.Command{
		Use:   "watch <lesson-id> <seconds>",
		Short: "Add watched seconds to a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("seconds must be an integer: %w", err)
			}
			return flags.mutate(cmd, func(s *progress.Store) error {
				if _, ok := s.Lesson(args[0]); !ok {
					return unknownLesson(args[0])
				}
				s.AddLessonWatchTime(args[0], secs)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "LESSON\tCOURSE\tPERCENT\tCOMPLETED\tBOOKMARKED")
				for _, l := range a.Progress().Lessons() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%t\n", l.LessonID, l.CourseID, l.Percent, l.Completed, l.Bookmarked)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(start, progressCmd, complete, bookmark, note, watch, list)
	return cmd
}

func unknownLesson(id string) error {
	return fmt.Errorf("lesson %q has not been started", id)
}

func newVocabCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "vocab", Short: "Record vocabulary practice"}

	var (
		correct, wrong bool
		definition     string
	)
	record := &cobra.Command{
		Use:   "record <term>",
		Short: "Record a review answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if correct == wrong {
				return errors.New("pass exactly one of --correct or --wrong")
			}
			var def *string
			if cmd.Flags().Changed("definition") {
				def = &definition
			}
			return flags.mutate(cmd, func(s *progress.Store) error {
				s.RecordVocabularyResult(args[0], correct, def)
				v, _ := s.Vocabulary(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s: mastery %d, next review %s\n",
					v.Term, v.MasteryLevel, v.NextReviewDate.Format("2006-01-02"))
				return nil
			})
		},
	}
	record.Flags().BoolVar(&correct, "correct", false, "the answer was correct")
	record.Flags().BoolVar(&wrong, "wrong", false, "the answer was wrong")
	record.Flags().StringVar(&definition, "definition", "", "replace the stored definition")

	var details progress.TermDetails
	add := &cobra.Command{
		Use:   "add <term>",
		Short: "Add a term to the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.mutate(cmd, func(s *progress.Store) error {
				s.AddVocabularyTerm(args[0], details)
				return nil
			})
		},
	}
	add.Flags().StringVar(&details.Definition, "definition", "", "definition")
	add.Flags().StringVar(&details.Difficulty, "difficulty", "", "difficulty label")
	add.Flags().StringVar(&details.Context, "context", "", "example sentence")

	mastery := &cobra.Command{
		Use:   "mastery <term> <level>",
		Short: "Override a term's mastery level (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level must be an integer: %w", err)
			}
			return flags.mutate(cmd, func(s *progress.Store) error {
				s.UpdateVocabularyMastery(args[0], level)
				return nil
			})
		},
	}

	review := &cobra.Command{
		Use:   "review <term>",
		Short: "Make a term due for review now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.mutate(cmd, func(s *progress.Store) error {
				s.MarkVocabularyForReview(args[0])
				return nil
			})
		},
	}

	due := &cobra.Command{
		Use:   "due",
		Short: "List terms due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				terms := a.Progress().DueVocabulary(time.Now())
				if len(terms) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing due.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TERM\tDEFINITION\tMASTERY\tDUE SINCE")
				for _, v := range terms {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", v.Term, v.Definition, v.MasteryLevel, v.NextReviewDate.Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TERM\tDEFINITION\tCORRECT\tINCORRECT\tMASTERY")
				for _, v := range a.Progress().VocabularyList() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", v.Term, v.Definition, v.Correct, v.Incorrect, v.MasteryLevel)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(record, add, mastery, review, due, list)
	return cmd
}

func newExerciseCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "exercise", Short: "Record exercise attempts"}

	var (
		typ       string
		success   bool
		score     float64
		timeSpent int
	)
	record := &cobra.Command{
		Use:   "record <exercise-id>",
		Short: "Record one attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc *float64
			if cmd.Flags().Changed("score") {
				sc = &score
			}
			var ts *int
			if cmd.Flags().Changed("time") {
				ts = &timeSpent
			}
			return flags.mutate(cmd, func(s *progress.Store) error {
				s.RecordExerciseAttempt(args[0], typ, success, sc, ts)
				e, _ := s.Exercise(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d succeeded\n", e.ID, e.Successes, e.Attempts)
				return nil
			})
		},
	}
	record.Flags().StringVar(&typ, "type", "", "exercise type, e.g. quiz")
	record.Flags().BoolVar(&success, "success", false, "the attempt succeeded")
	record.Flags().Float64Var(&score, "score", 0, "attempt score")
	record.Flags().IntVar(&timeSpent, "time", 0, "seconds spent")

	list := &cobra.Command{
		Use:   "list",
		Short: "List exercise results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "EXERCISE\tTYPE\tSUCCESSES\tATTEMPTS\tBEST\tAVERAGE")
				for _, e := range a.Progress().Exercises() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%.1f\n", e.ID, e.Type, e.Successes, e.Attempts, e.BestScore, e.AverageScore)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(record, list)
	return cmd
}

func newAchievementsCmd(flags *rootFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List unlocked achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				s := a.Progress()
				printUnlocked(cmd.OutOrStdout(), s.CheckAndUnlockAchievements())
				have := map[string]progress.Achievement{}
				for _, got := range s.Achievements() {
					have[got.ID] = got
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, d := range a.Catalog().Achievements {
					got, ok := have[d.ID]
					switch {
					case ok:
						fmt.Fprintf(w, "[x]\t%s\t%s\t%s\n", d.Title, d.Description, got.UnlockedAt.Format("2006-01-02"))
					case all:
						fmt.Fprintf(w, "[ ]\t%s\t%s\t\n", d.Title, d.Description)
					}
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include locked achievements")
	return cmd
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	cfg := workbook.DefaultImportConfig()
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import vocabulary terms from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = args[0]
			return flags.mutate(cmd, func(s *progress.Store) error {
				res, err := workbook.ImportInto(cfg, s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d term(s), skipped %d of %d row(s)\n", res.Imported, res.Skipped, res.Processed)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Sheet, "sheet", cfg.Sheet, "sheet name (first sheet when empty)")
	f.StringVar(&cfg.TermColumn, "term-col", cfg.TermColumn, "term column")
	f.StringVar(&cfg.DefinitionColumn, "definition-col", cfg.DefinitionColumn, "definition column")
	f.StringVar(&cfg.DifficultyColumn, "difficulty-col", cfg.DifficultyColumn, "difficulty column")
	f.StringVar(&cfg.ContextColumn, "context-col", cfg.ContextColumn, "context column")
	f.IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row (1-based)")
	return cmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <report.xlsx>",
		Short: "Write a progress report workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				s := a.Progress()
				if err := workbook.Export(args[0], s.Snapshot(), s.Metrics()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
				return nil
			})
		},
	}
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				a.Progress().ResetAll(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newRemindCmd(flags *rootFlags) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print review reminders on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				sched, err := a.NewReminder(reminder.WriterNotifier{W: cmd.OutOrStdout()})
				if err != nil {
					return err
				}
				if once {
					_, sent, err := sched.RunOnce(cmd.Context())
					if err == nil && !sent {
						fmt.Fprintln(cmd.OutOrStdout(), "No reminder: nothing due or outside active hours.")
					}
					return err
				}
				if err := sched.Start(cmd.Context()); err != nil {
					return err
				}
				<-cmd.Context().Done()
				sched.Stop()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}

func newStudyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Time a study session until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withApp(cmd.Context(), func(a *app.App) error {
				s := a.Progress()
				s.StartStudySession()
				fmt.Fprintln(cmd.OutOrStdout(), "Studying... press Ctrl+C to finish.")
				<-cmd.Context().Done()
				rec, _ := s.EndStudySession()
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %d min today.\n", rec.Duration)
				printUnlocked(cmd.OutOrStdout(), s.CheckAndUnlockAchievements())
				return nil
			})
		},
	}
}
