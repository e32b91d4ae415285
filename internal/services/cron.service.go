package services

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"opsdeck/internal/models"
)

// CronService manages the user crontab through the OS crontab binary.
// The crontab itself is the state of record; nothing is cached here.
type CronService struct {
	binary string
}

var cronService = &CronService{binary: "crontab"}

// InitCronService sets the crontab binary to invoke
func InitCronService(binary string) *CronService {
	if binary == "" {
		binary = "crontab"
	}
	cronService = &CronService{binary: binary}
	return cronService
}

// GetCronService returns the cron service singleton
func GetCronService() *CronService {
	return cronService
}

// readCrontab returns the raw crontab text. An absent crontab
// ("no crontab for user") is returned as empty, not as an error.
func (cs *CronService) readCrontab() (string, error) {
	out, err := exec.Command(cs.binary, "-l").CombinedOutput()
	if err != nil {
		if strings.Contains(strings.ToLower(string(out)), "no crontab for") {
			return "", nil
		}
		return "", fmt.Errorf("%s -l: %s", cs.binary, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// writeCrontab installs the given text as the user crontab via stdin.
// Rejections from the binary are surfaced verbatim.
func (cs *CronService) writeCrontab(content string) error {
	cmd := exec.Command(cs.binary, "-")
	cmd.Stdin = strings.NewReader(content)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", cs.binary, strings.TrimSpace(string(out)))
	}
	return nil
}

// removeCrontab clears the user crontab entirely
func (cs *CronService) removeCrontab() error {
	out, err := exec.Command(cs.binary, "-r").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s -r: %s", cs.binary, strings.TrimSpace(string(out)))
	}
	return nil
}

// ListJobs returns the active (non-comment) crontab entries
func (cs *CronService) ListJobs() ([]models.CronEntry, error) {
	content, err := cs.readCrontab()
	if err != nil {
		return nil, err
	}

	entries := []models.CronEntry{}
	for _, line := range activeLines(content) {
		schedule, command, ok := SplitCronLine(line)
		if !ok {
			continue
		}
		entries = append(entries, models.CronEntry{
			Index:       len(entries),
			Schedule:    schedule,
			Command:     command,
			Description: DescribeSchedule(schedule),
		})
	}
	return entries, nil
}

// AddJob validates the schedule and appends a new entry to the crontab.
// Validation happens before install so an invalid expression never
// creates an entry.
func (cs *CronService) AddJob(schedule, command string) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("%w: command is empty", ErrInvalidSchedule)
	}

	content, err := cs.readCrontab()
	if err != nil {
		return err
	}

	line := schedule + " " + command
	if strings.TrimSpace(content) == "" {
		content = line + "\n"
	} else {
		content = strings.TrimRight(content, "\n") + "\n" + line + "\n"
	}

	if err := cs.writeCrontab(content); err != nil {
		return err
	}
	log.Printf("[CRON] Added entry: %s", line)
	return nil
}

// UpdateJob replaces the active entry at index
func (cs *CronService) UpdateJob(index int, schedule, command string) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("%w: command is empty", ErrInvalidSchedule)
	}

	content, err := cs.readCrontab()
	if err != nil {
		return err
	}

	updated, err := replaceActiveLine(content, index, schedule+" "+command)
	if err != nil {
		return err
	}

	if err := cs.writeCrontab(updated); err != nil {
		return err
	}
	log.Printf("[CRON] Updated entry %d", index)
	return nil
}

// DeleteJob removes the active entry at index. Removing the last entry
// clears the crontab entirely.
func (cs *CronService) DeleteJob(index int) error {
	content, err := cs.readCrontab()
	if err != nil {
		return err
	}

	updated, err := replaceActiveLine(content, index, "")
	if err != nil {
		return err
	}

	if strings.TrimSpace(updated) == "" {
		if err := cs.removeCrontab(); err != nil {
			return err
		}
	} else if err := cs.writeCrontab(updated); err != nil {
		return err
	}
	log.Printf("[CRON] Deleted entry %d", index)
	return nil
}

// activeLines returns the non-comment, non-blank crontab lines
func activeLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// replaceActiveLine rewrites the crontab text with the entry at index
// replaced by newLine (removed when newLine is empty). Only lines that
// parse as schedule+command count toward the index, the same predicate
// ListJobs uses; comments, blanks, env assignments and @-directives are
// preserved in place and never addressed.
func replaceActiveLine(content string, index int, newLine string) (string, error) {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	active := -1
	found := false

	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}
		if _, _, ok := SplitCronLine(trimmed); !ok {
			out = append(out, line)
			continue
		}
		active++
		if active == index {
			found = true
			if newLine != "" {
				out = append(out, newLine)
			}
			continue
		}
		out = append(out, line)
	}

	if !found {
		return "", ErrCronJobNotFound
	}

	result := strings.Join(out, "\n")
	if strings.TrimSpace(result) != "" {
		result += "\n"
	}
	return result, nil
}

// SplitCronLine separates a crontab line into its 5-field schedule and
// the command remainder. Spacing inside the command is preserved.
func SplitCronLine(line string) (schedule, command string, ok bool) {
	rest := strings.TrimSpace(line)
	fields := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		sp := strings.IndexFunc(rest, unicode.IsSpace)
		if sp < 0 {
			return "", "", false
		}
		fields = append(fields, rest[:sp])
		rest = strings.TrimLeftFunc(rest[sp:], unicode.IsSpace)
	}
	if rest == "" {
		return "", "", false
	}
	return strings.Join(fields, " "), rest, true
}

// ValidateSchedule checks a 5-field cron expression. Supported field
// forms: "*", "*/n", "a", "a-b", "a,b,c". Field ranges are
// minute 0-59, hour 0-23, day 1-31, month 1-12, weekday 0-6.
func ValidateSchedule(schedule string) error {
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		return fmt.Errorf("%w: expected 5 fields (minute hour day month weekday), got %d", ErrInvalidSchedule, len(fields))
	}

	bounds := []struct {
		name string
		min  int
		max  int
	}{
		{"minute", 0, 59},
		{"hour", 0, 23},
		{"day", 1, 31},
		{"month", 1, 12},
		{"weekday", 0, 6},
	}

	for i, field := range fields {
		if err := validateCronField(field, bounds[i].min, bounds[i].max); err != nil {
			return fmt.Errorf("%w: %s field %q: %v", ErrInvalidSchedule, bounds[i].name, field, err)
		}
	}
	return nil
}

func validateCronField(value string, min, max int) error {
	if value == "*" {
		return nil
	}

	if strings.HasPrefix(value, "*/") {
		step, err := strconv.Atoi(value[2:])
		if err != nil {
			return fmt.Errorf("step is not a number")
		}
		if step < 1 || step > max {
			return fmt.Errorf("step out of range")
		}
		return nil
	}

	if strings.Contains(value, ",") {
		for _, part := range strings.Split(value, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return fmt.Errorf("list item is not a number")
			}
			if n < min || n > max {
				return fmt.Errorf("list item out of range %d-%d", min, max)
			}
		}
		return nil
	}

	if strings.Contains(value, "-") {
		parts := strings.SplitN(value, "-", 2)
		start, err1 := strconv.Atoi(parts[0])
		end, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("range bounds are not numbers")
		}
		if start < min || end > max || start > end {
			return fmt.Errorf("range out of bounds %d-%d", min, max)
		}
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < min || n > max {
		return fmt.Errorf("out of range %d-%d", min, max)
	}
	return nil
}

var cronMonths = []string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

var cronWeekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DescribeSchedule renders a 5-field cron expression as prose for the
// schedule preview. Unparseable expressions come back as a fixed string
// rather than an error, the preview is advisory only.
func DescribeSchedule(schedule string) string {
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		return "Invalid schedule format"
	}

	switch schedule {
	case "* * * * *":
		return "Every minute"
	case "0 * * * *":
		return "Every hour"
	case "0 0 * * *":
		return "Daily at midnight (00:00)"
	case "0 9 * * *":
		return "Daily at 9:00 AM"
	case "0 18 * * *":
		return "Daily at 6:00 PM"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	case "0 0 * * 1":
		return "Weekly on Monday at midnight"
	case "0 0 1 * *":
		return "Monthly on the 1st day at midnight"
	}

	minute, hour, day, month, weekday := fields[0], fields[1], fields[2], fields[3], fields[4]

	if strings.HasPrefix(minute, "*/") && hour == "*" && day == "*" && month == "*" && weekday == "*" {
		return fmt.Sprintf("Every %s minutes", minute[2:])
	}
	if minute == "0" && strings.HasPrefix(hour, "*/") && day == "*" && month == "*" && weekday == "*" {
		return fmt.Sprintf("Every %s hours", hour[2:])
	}

	var parts []string

	switch {
	case minute == "*" && hour == "*":
		parts = append(parts, "every minute")
	case minute != "*" && hour == "*":
		if strings.HasPrefix(minute, "*/") {
			parts = append(parts, fmt.Sprintf("every %s minutes", minute[2:]))
		} else {
			parts = append(parts, fmt.Sprintf("at minute %s of every hour", minute))
		}
	case minute == "*" && hour != "*":
		parts = append(parts, fmt.Sprintf("every minute at hour %s", hour))
	default:
		h, herr := strconv.Atoi(hour)
		m, merr := strconv.Atoi(minute)
		if herr == nil && merr == nil {
			parts = append(parts, fmt.Sprintf("at %02d:%02d", h, m))
		} else {
			parts = append(parts, fmt.Sprintf("at minute %s, hour %s", minute, hour))
		}
	}

	if day != "*" {
		parts = append(parts, fmt.Sprintf("on day %s", day))
	}

	if month != "*" {
		if n, err := strconv.Atoi(month); err == nil && n >= 1 && n <= 12 {
			parts = append(parts, fmt.Sprintf("in %s", cronMonths[n]))
		} else {
			parts = append(parts, fmt.Sprintf("in month %s", month))
		}
	}

	if weekday != "*" {
		if n, err := strconv.Atoi(weekday); err == nil && n >= 0 && n <= 6 {
			parts = append(parts, fmt.Sprintf("on %s", cronWeekdays[n]))
		} else {
			parts = append(parts, fmt.Sprintf("on weekday %s", weekday))
		}
	}

	if len(parts) == 0 {
		return "Every minute"
	}
	return strings.Join(parts, " ")
}

// PreviewSchedule validates and describes an expression in one shot
func PreviewSchedule(schedule string) models.SchedulePreview {
	preview := models.SchedulePreview{Schedule: schedule}
	if err := ValidateSchedule(schedule); err != nil {
		preview.Error = err.Error()
		return preview
	}
	preview.Valid = true
	preview.Description = DescribeSchedule(schedule)
	return preview
}

// cronLogSources are checked in order for cron activity
var cronLogSources = []string{"/var/log/cron", "/var/log/cron.log", "/var/log/syslog"}

// CronLogs returns recent cron-related log lines from the first readable
// system log, falling back to journalctl on systemd hosts.
func (cs *CronService) CronLogs(limit int) (source string, lines []string, err error) {
	if limit <= 0 {
		limit = 100
	}

	for _, logFile := range cronLogSources {
		if _, statErr := os.Stat(logFile); statErr != nil {
			continue
		}
		out, tailErr := exec.Command("tail", "-n", strconv.Itoa(limit), logFile).Output()
		if tailErr != nil {
			continue
		}

		var matched []string
		for _, line := range strings.Split(string(out), "\n") {
			if strings.Contains(strings.ToLower(line), "cron") {
				matched = append(matched, line)
			}
		}
		if len(matched) > 0 {
			return logFile, matched, nil
		}
	}

	out, jErr := exec.Command("journalctl", "-u", "cron", "-n", strconv.Itoa(limit), "--no-pager").Output()
	if jErr == nil {
		return "journalctl", strings.Split(strings.TrimRight(string(out), "\n"), "\n"), nil
	}

	return "", nil, fmt.Errorf("no accessible cron logs found")
}
