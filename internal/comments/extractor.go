package comments

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"igcomments/internal/dom"
	"igcomments/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("igcomments.internal.comments")

// Strategy names the way a pass recovered its records.
type Strategy string

const (
	StrategyStructured Strategy = "structured"
	StrategyFallback   Strategy = "fallback"
	// StrategyBoth means the structured walk under-produced and positional pairing ran too.
	StrategyBoth Strategy = "structured+fallback"
)

// PassResult is the outcome of one extraction pass. Nothing in it is visible to the run
// until the driver merges Keys and appends Records.
type PassResult struct {
	Records    []models.CommentRecord
	Keys       *Deduplicator
	Strategy   Strategy
	ValidPairs int
	Skipped    int
}

// Extractor recovers comment records from a page snapshot
type Extractor struct {
	classifier *Classifier
	likes      *LikeParser
	opts       Options
}

func NewExtractor(classifier *Classifier, opts Options) *Extractor {
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &Extractor{
		classifier: classifier,
		likes:      NewLikeParser(),
		opts:       opts,
	}
}

// Extract runs one atomic pass over snap. seen is read but never written; accepted keys
// are staged in the returned PassResult.
func (e *Extractor) Extract(ctx context.Context, snap Snapshot, seen *Deduplicator) (*PassResult, error) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	res := &PassResult{Keys: seen.Child()}

	if snap.Structured() {
		res.Strategy = StrategyStructured
		if err := e.structured(snap.Container, res); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "structured pass failed")
			return nil, &models.ContentExtractionError{Step: "structured", Err: err}
		}
		if res.ValidPairs >= e.opts.MinStructuredPairs {
			span.SetAttributes(attribute.Int("records", len(res.Records)))
			return res, nil
		}
		res.Strategy = StrategyBoth
	} else {
		res.Strategy = StrategyFallback
	}

	root := snap.Document
	if root == nil {
		root = snap.Container
	}
	if root == nil {
		return res, nil
	}
	if err := e.fallback(root, res); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fallback pass failed")
		return nil, &models.ContentExtractionError{Step: "fallback", Err: err}
	}

	span.SetAttributes(
		attribute.String("strategy", string(res.Strategy)),
		attribute.Int("records", len(res.Records)),
	)
	return res, nil
}

func (e *Extractor) accept(res *PassResult, c models.Candidate) {
	comment := e.classifier.CleanComment(c.RawText)
	if comment == "" {
		return
	}
	if !res.Keys.IsNew(Key(c.Username, comment)) {
		return
	}
	res.Records = append(res.Records, models.CommentRecord{
		Username: c.Username,
		Comment:  comment,
		Likes:    c.Likes,
	})
	slog.Debug("accepted comment", "username", c.Username, "comment", preview(comment, 60), "likes", c.Likes)
}

func (e *Extractor) structured(container dom.Element, res *PassResult) error {
	anchors, err := container.FindAll(dom.RoleAnchor)
	if err != nil {
		return err
	}
	slog.Debug("username link candidates", "count", len(anchors))

	for _, a := range anchors {
		c, ok, err := e.candidateFromAnchor(a)
		if err != nil {
			res.Skipped++
			continue
		}
		if !ok {
			continue
		}
		res.ValidPairs++
		e.accept(res, c)
	}
	return nil
}

func (e *Extractor) candidateFromAnchor(a dom.Element) (models.Candidate, bool, error) {
	href, ok, err := a.Attr("href")
	if err != nil || !ok || !IsProfileHref(href) {
		return models.Candidate{}, false, err
	}

	username, err := a.Text()
	if err != nil {
		return models.Candidate{}, false, err
	}
	if !e.classifier.IsMeaningfulText(username, e.opts.MinTextLength) || !e.classifier.IsPlausibleUsername(username) {
		return models.Candidate{}, false, nil
	}

	group, err := e.commentGroup(a)
	if err != nil || group == nil {
		return models.Candidate{}, false, err
	}

	comment, err := e.longestText(group, username)
	if err != nil {
		return models.Candidate{}, false, err
	}
	if comment == "" || !e.classifier.IsValidPair(username, comment) {
		return models.Candidate{}, false, nil
	}

	return models.Candidate{
		Username: username,
		RawText:  comment,
		Likes:    e.likesNear(group, comment),
	}, true, nil
}

// commentGroup walks up from a username link to the first ancestor grouping several
// text leaves, giving up after MaxAncestorLevels.
func (e *Extractor) commentGroup(a dom.Element) (dom.Element, error) {
	var group dom.Element
	cur := a
	for level := 0; level < e.opts.MaxAncestorLevels; level++ {
		parent, err := cur.Parent()
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		group, cur = parent, parent

		leaves, err := parent.FindAll(dom.RoleTextLeaf)
		if err != nil {
			return nil, err
		}
		if len(leaves) >= e.opts.MinGroupLeaves {
			break
		}
	}
	return group, nil
}

// longestText picks the longest meaningful leaf that is not the username. Comment bodies
// are the longest fragment next to a handle; timestamps and action labels are short.
func (e *Extractor) longestText(group dom.Element, username string) (string, error) {
	leaves, err := group.FindAll(dom.RoleTextLeaf)
	if err != nil {
		return "", err
	}

	best, bestLen := "", 0
	for _, leaf := range leaves {
		text, err := leaf.Text()
		if err != nil {
			continue
		}
		if text == username || !e.classifier.IsMeaningfulText(text, e.opts.MinTextLength) {
			continue
		}
		if n := utf8.RuneCountInString(text); n > bestLen {
			best, bestLen = text, n
		}
	}
	return best, nil
}

// likesNear looks for a like counter around a comment group. Any lookup failure
// degrades to "no likes found".
func (e *Extractor) likesNear(group dom.Element, comment string) int {
	cur := group
	for level := 0; level <= e.opts.LikeAncestorLevels; level++ {
		if level > 0 {
			parent, err := cur.Parent()
			if err != nil || parent == nil {
				break
			}
			// stop before the search spills into a neighbouring comment
			if profileLinkCount(parent) > 1 {
				break
			}
			cur = parent
		}
		if n := e.likesInLabels(cur, comment); n > 0 {
			return n
		}
	}

	controls, err := group.FindAll(dom.RoleControl)
	if err != nil {
		return 0
	}
	for _, ctrl := range controls {
		if label, ok, err := ctrl.Attr("aria-label"); err == nil && ok && mentionsLikes(label) {
			if n := e.likes.Parse(label); n > 0 {
				return n
			}
		}
		if text, err := ctrl.Text(); err == nil && mentionsLikes(text) {
			if n := e.likes.Parse(text); n > 0 {
				return n
			}
		}
	}
	return 0
}

func (e *Extractor) likesInLabels(scope dom.Element, comment string) int {
	labels, err := scope.FindAll(dom.RoleLabel)
	if err != nil {
		return 0
	}
	for _, label := range labels {
		text, err := label.Text()
		if err != nil || text == "" || text == comment {
			continue
		}
		if utf8.RuneCountInString(text) > e.opts.MaxLikeLabelLength || !mentionsLikes(text) {
			continue
		}
		if n := e.likes.Parse(text); n > 0 {
			return n
		}
	}
	return 0
}

func (e *Extractor) fallback(root dom.Element, res *PassResult) error {
	leaves, err := root.FindAll(dom.RoleTextLeaf)
	if err != nil {
		return err
	}

	texts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		text, err := leaf.Text()
		if err != nil {
			res.Skipped++
			continue
		}
		texts = append(texts, text)
	}
	slog.Debug("fallback text leaves", "count", len(leaves))

	e.pairTexts(texts, res)
	return nil
}

// Fallback pairs consecutive meaningful texts as username/comment. It is order dependent
// and recall oriented: it misses pairs and occasionally mis-pairs neighbours.
func (e *Extractor) Fallback(texts []string, seen *Deduplicator) *PassResult {
	res := &PassResult{Keys: seen.Child(), Strategy: StrategyFallback}
	e.pairTexts(texts, res)
	return res
}

func (e *Extractor) pairTexts(texts []string, res *PassResult) {
	meaningful := make([]string, 0, len(texts))
	for _, t := range texts {
		if e.classifier.IsMeaningfulText(t, e.opts.MinTextLength) {
			meaningful = append(meaningful, t)
		}
	}

	for i := 0; i < len(meaningful)-1; {
		username, comment := meaningful[i], meaningful[i+1]
		if !e.classifier.IsValidPair(username, comment) {
			i++
			continue
		}
		res.ValidPairs++
		e.accept(res, models.Candidate{Username: username, RawText: comment})
		i += 2
	}
}

// IsProfileHref reports whether a link target looks like a user profile rather than
// site navigation.
func IsProfileHref(href string) bool {
	return strings.Contains(href, "/") &&
		!strings.Contains(href, "explore") &&
		!strings.Contains(href, "accounts")
}

func profileLinkCount(scope dom.Element) int {
	anchors, err := scope.FindAll(dom.RoleAnchor)
	if err != nil {
		return 0
	}
	hrefs := make(map[string]struct{})
	for _, a := range anchors {
		href, ok, err := a.Attr("href")
		if err != nil || !ok || !IsProfileHref(href) {
			continue
		}
		hrefs[href] = struct{}{}
	}
	return len(hrefs)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
