/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package provider

import (
	"context"
	"slices"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
)

// PostsAPI is the part of the API the Posts provider uses.
type PostsAPI interface {
	Feed(ctx context.Context, token string) ([]api.Post, error)
	MyPosts(ctx context.Context, token string) ([]api.Post, error)
	CreatePost(ctx context.Context, token string, p api.NewPost) error
	LikePost(ctx context.Context, token string, postID api.ID) error
}

// Posts holds the professional network feed.
//
// Likes are applied to the held feed locally once the server accepts them,
// without a refetch.
type Posts struct {
	group

	api PostsAPI
	src synced.TokenSource

	feed *synced.Resource[[]api.Post]
}

// NewPosts returns a Posts bound to the given session.
func NewPosts(p PostsAPI, src synced.TokenSource, cfg Config) *Posts {
	ps := &Posts{
		api:  p,
		src:  src,
		feed: synced.New(p.Feed, cfg.options("posts", false)),
	}

	ps.group = group{ps.feed}
	ps.feed.Bind(src)

	return ps
}

// Feed returns a copy of the most recently fetched feed.
func (p *Posts) Feed() []api.Post {
	return slices.Clone(p.feed.Data())
}

// Changed is the posts flag.
func (p *Posts) Changed() bool { return p.feed.Changed() }

// SetChanged sets the posts flag; raising it refetches the feed.
func (p *Posts) SetChanged(changed bool) { p.feed.SetChanged(changed) }

// Mine fetches the logged in user's own posts. They are not held.
func (p *Posts) Mine(ctx context.Context) ([]api.Post, error) {
	token := p.src.Token()
	if token == "" {
		return nil, api.ErrNotLoggedIn
	}

	return p.api.MyPosts(ctx, token)
}

// Create publishes a post, then refetches the feed.
func (p *Posts) Create(ctx context.Context, np api.NewPost) error {
	return write(p.src, func(token string) error {
		return p.api.CreatePost(ctx, token, np)
	}, p.feed)
}

// Like toggles whether you like the given post. When the server accepts it,
// the post's like count and state are flipped in the held feed.
func (p *Posts) Like(ctx context.Context, postID api.ID) error {
	if err := write(p.src, func(token string) error {
		return p.api.LikePost(ctx, token, postID)
	}); err != nil {
		return err
	}

	p.feed.Modify(func(posts []api.Post) []api.Post {
		i := slices.IndexFunc(posts, func(post api.Post) bool { return post.ID == postID })
		if i < 0 {
			return posts
		}

		posts = slices.Clone(posts)
		posts[i].ToggleLike()

		return posts
	})

	return nil
}
