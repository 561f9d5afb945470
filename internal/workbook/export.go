package workbook

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"learnprogress/internal/progress"
)

const (
	SheetSummary    = "Summary"
	SheetLessons    = "Lessons"
	SheetVocabulary = "Vocabulary"
	SheetExercises  = "Exercises"
	SheetSessions   = "Sessions"
)

const cellTime = "2006-01-02 15:04"

// Export writes a progress report workbook with one sheet per record set.
func Export(path string, st progress.State, m progress.Metrics) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", SheetSummary)
	for _, name := range []string{SheetLessons, SheetVocabulary, SheetExercises, SheetSessions} {
		f.NewSheet(name)
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Overall completion", m.OverallCompletion},
		{"Lessons started", m.LessonsStarted},
		{"Lessons completed", m.LessonsCompleted},
		{"Streak days", m.StreakDays},
		{"Longest streak", m.LongestStreak},
		{"Vocabulary", m.VocabularyTotal},
		{"Vocabulary mastered", m.VocabularyMastered},
		{"Vocabulary due", m.VocabularyDue},
		{"Exercise attempts", m.ExerciseAttempts},
		{"Exercise accuracy", m.ExerciseAccuracy},
		{"Study minutes", m.TotalStudyTime},
		{"Achievements", m.AchievementsUnlocked},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	lessons := [][]any{{"Lesson", "Course", "Percent", "Completed", "Started", "Completed at", "Last interaction", "Watch seconds", "Bookmarked"}}
	for _, id := range sortedKeys(st.Lessons) {
		l := st.Lessons[id]
		lessons = append(lessons, []any{l.LessonID, l.CourseID, l.Percent, l.Completed,
			fmtTime(l.StartedAt), fmtTime(l.CompletedAt), fmtTime(l.LastInteractionAt), l.WatchTime, l.Bookmarked})
	}
	if err := writeRows(f, SheetLessons, lessons); err != nil {
		return err
	}

	vocab := [][]any{{"Term", "Definition", "Correct", "Incorrect", "Familiarity", "Mastery", "Next review", "Difficulty"}}
	for _, term := range sortedKeys(st.Vocabulary) {
		v := st.Vocabulary[term]
		vocab = append(vocab, []any{v.Term, v.Definition, v.Correct, v.Incorrect, v.Familiarity,
			v.MasteryLevel, fmtTime(v.NextReviewDate), v.Difficulty})
	}
	if err := writeRows(f, SheetVocabulary, vocab); err != nil {
		return err
	}

	exercises := [][]any{{"Exercise", "Type", "Attempts", "Successes", "Best score", "Average score", "Last attempt"}}
	for _, id := range sortedKeys(st.Exercises) {
		e := st.Exercises[id]
		exercises = append(exercises, []any{e.ID, e.Type, e.Attempts, e.Successes, e.BestScore,
			e.AverageScore, fmtTime(e.LastAttemptAt)})
	}
	if err := writeRows(f, SheetExercises, exercises); err != nil {
		return err
	}

	sessions := [][]any{{"Date", "Minutes", "Lessons", "Exercises", "Vocabulary"}}
	for _, day := range sortedKeys(st.StudySessions) {
		s := st.StudySessions[day]
		sessions = append(sessions, []any{s.Date, s.Duration, s.LessonsStudied, s.ExercisesCompleted, s.VocabularyReviewed})
	}
	if err := writeRows(f, SheetSessions, sessions); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(cellTime)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
