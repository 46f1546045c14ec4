package models

// Post represents a single scraped listing entry from a subreddit page.
// Score and CommentsCount are kept as raw strings because old.reddit
// renders values like "•" or "1.2k" that are not always numeric.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Score         string    `json:"score"`
	CommentsCount string    `json:"comments_count"`
	PostURL       string    `json:"post_url"`
	CommentsURL   string    `json:"comments_url"`
	Timestamp     string    `json:"timestamp"`
	Flair         string    `json:"flair"`
	IsSelfPost    bool      `json:"is_self_post"`
	IsStickied    bool      `json:"is_stickied"`
	HasMedia      bool      `json:"has_media"`
	Content       string    `json:"content"`
	ScrapeTime    string    `json:"scrape_time"`
	Comments      []Comment `json:"comments,omitempty"`
}

// Comment represents one reply entry on a post's discussion page.
// Comments carry no identifier; they are kept in the order encountered.
type Comment struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Score     string `json:"score"`
	Timestamp string `json:"timestamp"`
}

// AuthorCount is one entry of the top-authors ranking.
type AuthorCount struct {
	Author string `json:"author"`
	Posts  int    `json:"posts"`
}

// FlairCount is one entry of the flair distribution.
type FlairCount struct {
	Flair string `json:"flair"`
	Posts int    `json:"posts"`
}

// AnalyticsSummary holds the aggregate statistics computed once over a
// completed scrape. Score statistics cover only the numerically parseable
// scores; percentages and TotalPosts always use the full record count.
type AnalyticsSummary struct {
	TotalPosts               int           `json:"total_posts"`
	UniqueAuthors            int           `json:"unique_authors"`
	AverageScore             float64       `json:"average_score"`
	MedianScore              float64       `json:"median_score"`
	MaxScore                 float64       `json:"max_score"`
	MinScore                 float64       `json:"min_score"`
	StickiedPosts            int           `json:"stickied_posts"`
	SelfPostsPercentage      float64       `json:"self_posts_percentage"`
	PostsWithMediaPercentage float64       `json:"posts_with_media_percentage"`
	TopAuthors               []AuthorCount `json:"top_authors"`
	FlairDistribution        []FlairCount  `json:"flair_distribution"`
}
