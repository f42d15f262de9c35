package handlers

import (
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
)

// PostView is a post enriched with its author, aggregate counters and the
// viewer's own relation to it. Reposts carry their original inline.
type PostView struct {
	models.Post
	Author       models.UserCompact `json:"author"`
	LikeCount    int64              `json:"like_count"`
	CommentCount int64              `json:"comment_count"`
	RepostCount  int64              `json:"repost_count"`
	ShareCount   int64              `json:"share_count"`
	IsLiked      bool               `json:"is_liked"`
	IsSaved      bool               `json:"is_saved"`
	Original     *PostView          `json:"original,omitempty"`
}

// postPresenter batches the lookups needed to turn raw posts into PostViews.
// All counters are fetched with one query per kind regardless of page size.
type postPresenter struct {
	userRepository      repositories.UserRepository
	postRepository      repositories.PostRepository
	commentRepository   repositories.CommentRepository
	likeRepository      repositories.LikeRepository
	savedPostRepository repositories.SavedPostRepository
}

func (p *postPresenter) present(viewerID uint, posts []models.Post) ([]PostView, error) {
	views, err := p.presentShallow(viewerID, posts)
	if err != nil {
		return nil, err
	}

	parentIDs := make([]uint, 0)
	seen := make(map[uint]bool)
	for _, post := range posts {
		if post.RepostParentID != nil && !seen[*post.RepostParentID] {
			seen[*post.RepostParentID] = true
			parentIDs = append(parentIDs, *post.RepostParentID)
		}
	}
	if len(parentIDs) == 0 {
		return views, nil
	}

	parents := make([]models.Post, 0, len(parentIDs))
	for _, id := range parentIDs {
		parent, err := p.postRepository.GetPostByID(id)
		if err != nil {
			continue // original deleted out from under the repost
		}
		parents = append(parents, *parent)
	}
	parentViews, err := p.presentShallow(viewerID, parents)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*PostView, len(parentViews))
	for i := range parentViews {
		byID[parentViews[i].ID] = &parentViews[i]
	}
	for i := range views {
		if views[i].RepostParentID != nil {
			views[i].Original = byID[*views[i].RepostParentID]
		}
	}
	return views, nil
}

func (p *postPresenter) presentShallow(viewerID uint, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]uint, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	seenAuthors := make(map[uint]bool)
	for i, post := range posts {
		postIDs[i] = post.ID
		if !seenAuthors[post.AuthorID] {
			seenAuthors[post.AuthorID] = true
			authorIDs = append(authorIDs, post.AuthorID)
		}
	}

	authors, err := p.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	likeCounts, err := p.likeRepository.GetLikeCountMap(postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := p.commentRepository.GetCommentCountMap(postIDs)
	if err != nil {
		return nil, err
	}
	repostCounts, err := p.postRepository.GetRepostCountMap(postIDs)
	if err != nil {
		return nil, err
	}
	shareCounts, err := p.postRepository.GetShareCountMap(postIDs)
	if err != nil {
		return nil, err
	}
	liked, err := p.likeRepository.GetLikedPostIDs(viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	saved, err := p.savedPostRepository.GetSavedPostIDs(viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	for i, post := range posts {
		author := authors[post.AuthorID]
		views[i] = PostView{
			Post:         post,
			Author:       author.ToCompact(),
			LikeCount:    likeCounts[post.ID],
			CommentCount: commentCounts[post.ID],
			RepostCount:  repostCounts[post.ID],
			ShareCount:   shareCounts[post.ID],
			IsLiked:      liked[post.ID],
			IsSaved:      saved[post.ID],
		}
	}
	return views, nil
}
