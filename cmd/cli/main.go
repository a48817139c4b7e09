package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "mediagrab",
		Short: "mediagrab CLI - save YouTube and Instagram media",
		Long:  `A command-line client for the mediagrab server. The server is started in the background when it is not running.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(configCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a YouTube or Instagram link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		format, _ := cmd.Flags().GetString("format")

		fmt.Printf("Downloading %s as %s...\n", args[0], format)
		result, err := newClient(serverURL).Download(args[0], format)
		exitOnError(err)

		fmt.Println(result.Message)
		if len(result.DownloadServices) > 0 {
			for _, s := range result.DownloadServices {
				fmt.Printf("  %-18s %s  (%s)\n", s.Name, s.URL, s.Description)
			}
			return
		}
		fmt.Printf("File: %s\n", result.FileName)
		fmt.Printf("Path: %s\n", result.DownloadPath)
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files in the downloads directory",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		var listing struct {
			Files []string `json:"files"`
			Path  string   `json:"path"`
		}
		exitOnError(newClient(serverURL).getJSON("/api/downloads", &listing))

		if listing.Path != "" {
			fmt.Printf("%s:\n", listing.Path)
		}
		for _, f := range listing.Files {
			fmt.Printf("  %s\n", f)
		}
		if len(listing.Files) == 0 {
			fmt.Println("  (no files)")
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent downloads",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		query := url.Values{}
		if status != "" {
			query.Set("status", status)
		}
		query.Set("limit", strconv.Itoa(limit))

		var history struct {
			Downloads []historyEntry `json:"downloads"`
		}
		exitOnError(newClient(serverURL).getJSON("/api/history?"+query.Encode(), &history))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tFORMAT\tSTATUS\tFILE\tCREATED")
		for _, d := range history.Downloads {
			detail := d.FileName
			if d.Status == "failed" {
				detail = truncate(d.ErrorMessage, 40)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				truncate(d.ID, 8),
				truncate(d.URL, 40),
				d.Format,
				d.Status,
				detail,
				d.CreatedAt)
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		var stats map[string]any
		exitOnError(newClient(serverURL).getJSON("/api/history/stats", &stats))

		fmt.Println("Download Statistics:")
		fmt.Printf("  Total:      %v\n", stats["total"])
		fmt.Printf("  Processing: %v\n", stats["processing"])
		fmt.Printf("  Completed:  %v\n", stats["completed"])
		fmt.Printf("  Failed:     %v\n", stats["failed"])
		fmt.Printf("  Timed out:  %v\n", stats["timed_out"])
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [category]",
	Short: "Show today's log entries (access, download, error, output)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		limit, _ := cmd.Flags().GetInt("limit")
		search, _ := cmd.Flags().GetString("search")

		path := "/api/logs/" + url.PathEscape(args[0])
		query := url.Values{"limit": {strconv.Itoa(limit)}}
		if search != "" {
			path += "/search"
			query.Set("q", search)
		}

		var logs struct {
			Entries []struct {
				Timestamp string `json:"timestamp"`
				Level     string `json:"level"`
				Message   string `json:"message"`
			} `json:"entries"`
		}
		exitOnError(newClient(serverURL).getJSON(path+"?"+query.Encode(), &logs))

		for _, e := range logs.Entries {
			fmt.Printf("%s [%s] %s\n", e.Timestamp, e.Level, e.Message)
		}
	},
}

func init() {
	downloadCmd.Flags().StringP("format", "f", "video", "Media format (video, audio)")
	historyCmd.Flags().StringP("status", "s", "", "Filter by status (processing, completed, failed)")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries")
	logsCmd.Flags().IntP("limit", "n", 50, "Number of entries")
	logsCmd.Flags().StringP("search", "q", "", "Only show entries containing this text")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
