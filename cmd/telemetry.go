package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/orrery/internal/telemetry"
	"github.com/papapumpkin/orrery/internal/ui"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View the JSONL telemetry history",
	Long: `Reads and formats the telemetry file set by --telemetry or telemetry_path.

With --epoch, shows only the events of one load.
With --summary, prints one row per load instead of the events.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("epoch", "", "only show events of this epoch")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	telemetryCmd.Flags().Bool("summary", false, "summarize each load instead of listing events")
	telemetryCmd.MarkFlagsMutuallyExclusive("summary", "follow")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	printer := ui.New()
	cfg, err := loadConfig(printer)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	if cfg.TelemetryPath == "" {
		return errors.New("telemetry: no file configured; set --telemetry or telemetry_path")
	}

	epochID, _ := cmd.Flags().GetString("epoch")
	follow, _ := cmd.Flags().GetBool("follow")
	summary, _ := cmd.Flags().GetBool("summary")

	f, err := os.Open(cfg.TelemetryPath)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", cfg.TelemetryPath, err)
	}
	defer f.Close()

	if summary {
		return summarize(cmd.OutOrStdout(), f, epochID)
	}

	// Print all existing events.
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		printEvent(cmd.OutOrStdout(), line, epochID)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", cfg.TelemetryPath, err)
	}

	if !follow {
		return nil
	}

	return tailFollow(cmd.OutOrStdout(), f, cfg.TelemetryPath, epochID)
}

// summarize prints the epoch table for the history in r, limited to
// epochID when set.
func summarize(w io.Writer, r io.Reader, epochID string) error {
	var events []telemetry.Event
	err := telemetry.ReadEvents(r, func(evt telemetry.Event) {
		if epochID == "" || evt.EpochID == epochID {
			events = append(events, evt)
		}
	})
	if err != nil {
		return err
	}
	epochs := telemetry.Epochs(events)
	if len(epochs) == 0 {
		fmt.Fprintln(w, "no epochs recorded")
		return nil
	}
	ui.EpochTable(w, epochs)
	return nil
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, f *os.File, path, epochID string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	for event := range watcher.Events {
		if !event.Has(fsnotify.Write) {
			continue
		}
		// Read all new lines available.
		for {
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line != "" {
				printEvent(w, line, epochID)
			}
			if err != nil {
				break
			}
		}
	}
	return nil
}

// printEvent decodes a JSONL line and prints a human-readable representation.
// Events of other epochs are dropped when epochID is set.
func printEvent(w io.Writer, line, epochID string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if epochID != "" && evt.EpochID != epochID {
		return
	}

	ts := evt.Timestamp.Format(time.TimeOnly)
	parts := []string{fmt.Sprintf("[%s]", ts), evt.Kind}

	if evt.EpochID != "" && epochID == "" {
		parts = append(parts, fmt.Sprintf("epoch=%s", shortEpoch(evt.EpochID)))
	}
	if evt.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", evt.Path))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// shortEpoch trims a UUID to its first group.
func shortEpoch(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
