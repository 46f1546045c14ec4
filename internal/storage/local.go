package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/models"
)

// LocalStore writes scrape results to a directory on the local
// filesystem.
type LocalStore struct {
	dir string
}

// Ensure LocalStore implements Store
var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the output directory if needed and returns a
// store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Path returns the absolute location of a stored file. The filename is
// reduced to its base so callers cannot escape the output directory.
func (s *LocalStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Remove deletes a stored file. A missing file is not an error.
func (s *LocalStore) Remove(filename string) error {
	err := os.Remove(s.Path(filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SavePosts serializes the record set under the given base name (no
// extension) in the requested format. An empty record set writes nothing
// and returns an empty path.
func (s *LocalStore) SavePosts(posts []models.Post, format models.OutputFormat, name string) (string, error) {
	if len(posts) == 0 {
		logrus.Warn("No posts to save")
		return "", nil
	}

	base := filepath.Join(s.dir, filepath.Base(name))

	switch format {
	case models.FormatCSV:
		return s.saveCSV(posts, base+".csv")
	case models.FormatJSON:
		return s.saveJSON(posts, base+".json")
	case models.FormatTXT:
		return s.saveTXT(posts, base+".txt")
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// SaveAnalytics writes the analytics summary as an indented JSON file.
func (s *LocalStore) SaveAnalytics(summary *models.AnalyticsSummary, name string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name)+".json")

	data, err := json.MarshalIndent(summary, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analytics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write analytics: %w", err)
	}

	logrus.Infof("Analytics saved to %s", path)
	return path, nil
}

func (s *LocalStore) saveJSON(posts []models.Post, path string) (string, error) {
	data, err := json.MarshalIndent(posts, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal posts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write JSON: %w", err)
	}

	logrus.Infof("Data saved to %s", path)
	return path, nil
}

// saveCSV writes a tabular encoding. Nested comment lists are flattened
// into summary columns: actual comment count plus the first comment's
// text and score.
func (s *LocalStore) saveCSV(posts []models.Post, path string) (string, error) {
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	withComments := false
	for _, post := range posts {
		if len(post.Comments) > 0 {
			withComments = true
			break
		}
	}

	header := []string{
		"id", "title", "author", "score", "comments_count", "post_url",
		"comments_url", "timestamp", "flair", "is_self_post", "is_stickied",
		"has_media", "content", "scrape_time",
	}
	if withComments {
		header = append(header, "comment_count_actual", "top_comment", "top_comment_score")
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, post := range posts {
		row := []string{
			post.ID, post.Title, post.Author, post.Score, post.CommentsCount,
			post.PostURL, post.CommentsURL, post.Timestamp, post.Flair,
			strconv.FormatBool(post.IsSelfPost), strconv.FormatBool(post.IsStickied),
			strconv.FormatBool(post.HasMedia), post.Content, post.ScrapeTime,
		}
		if withComments {
			if len(post.Comments) > 0 {
				row = append(row,
					strconv.Itoa(len(post.Comments)),
					post.Comments[0].Text,
					post.Comments[0].Score,
				)
			} else {
				row = append(row, "", "", "")
			}
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	logrus.Infof("Data saved to %s", path)
	return path, nil
}

// saveTXT writes a plain-text report: one block per post followed by an
// indented comment listing.
func (s *LocalStore) saveTXT(posts []models.Post, path string) (string, error) {
	var b strings.Builder

	for _, post := range posts {
		fmt.Fprintf(&b, "Title: %s\n", post.Title)
		fmt.Fprintf(&b, "Author: %s\n", post.Author)
		fmt.Fprintf(&b, "Score: %s\n", post.Score)
		fmt.Fprintf(&b, "Comments: %s\n", post.CommentsCount)
		fmt.Fprintf(&b, "Post URL: %s\n", post.PostURL)
		fmt.Fprintf(&b, "Timestamp: %s\n", post.Timestamp)
		fmt.Fprintf(&b, "Flair: %s\n", post.Flair)
		fmt.Fprintf(&b, "Is Self Post: %t\n", post.IsSelfPost)
		fmt.Fprintf(&b, "Is Stickied: %t\n", post.IsStickied)

		if post.Content != "" {
			fmt.Fprintf(&b, "\nContent:\n%s\n", post.Content)
		}

		if len(post.Comments) > 0 {
			b.WriteString("\nComments:\n")
			for _, comment := range post.Comments {
				fmt.Fprintf(&b, "  Author: %s\n", comment.Author)
				fmt.Fprintf(&b, "  Score: %s\n", comment.Score)
				fmt.Fprintf(&b, "  Text: %s\n", comment.Text)
				fmt.Fprintf(&b, "  Time: %s\n", comment.Timestamp)
				b.WriteString("  " + strings.Repeat("-", 40) + "\n")
			}
		}

		b.WriteString(strings.Repeat("=", 80) + "\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	logrus.Infof("Data saved to %s", path)
	return path, nil
}
