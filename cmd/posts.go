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

package cmd

import (
	"context"
	"strconv"

	"github.com/dentflow/clinicsync/api"
	"github.com/spf13/cobra"
)

// options for the posts cmds.
var (
	postsMine   bool
	postTitle   string
	postContent string
	postImage   string
)

// postsCmd represents the posts command.
var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Read, write or like posts on the professional network",
	Long: `Read, write or like posts on the professional network.

With no sub-command, shows the feed of everyone's posts, newest first. Use
--mine to only show your own.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			if !postsMine {
				printPosts(a.posts.Feed())

				return nil
			}

			mine, err := a.posts.Mine(context.Background())
			if err != nil {
				return err
			}

			printPosts(mine)

			return nil
		})
	},
}

// postsAddCmd represents the posts add command.
var postsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Publish a post",
	Long: `Publish a post.

--title and --content are required. --image optionally attaches a picture from
the given file.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			np := api.NewPost{Title: postTitle, Content: postContent, ImagePath: postImage}

			if err := a.posts.Create(context.Background(), np); err != nil {
				return err
			}

			a.wait()
			info("published %q", np.Title)
			printPosts(a.posts.Feed())

			return nil
		})
	},
}

// postsLikeCmd represents the posts like command.
var postsLikeCmd = &cobra.Command{
	Use:   "like <post id>",
	Short: "Like a post, or unlike it if you already do",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			if err := a.posts.Like(context.Background(), api.ID(args[0])); err != nil {
				return err
			}

			printPosts(a.posts.Feed())

			return nil
		})
	},
}

func printPosts(posts []api.Post) {
	table := newTable("ID", "Author", "Title", "Content", "Image", "Likes", "Liked", "Date")

	for _, p := range posts {
		table.Append([]string{
			p.ID.String(),
			p.Author.Name,
			p.Title,
			p.Content,
			p.Image,
			strconv.Itoa(p.Likes),
			yesNo(p.IsLiked),
			p.Date,
		})
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsAddCmd, postsLikeCmd)

	postsCmd.Flags().BoolVar(&postsMine, "mine", false, "only show your own posts")

	f := postsAddCmd.Flags()
	f.StringVar(&postTitle, "title", "", "title of the post")
	f.StringVar(&postContent, "content", "", "text of the post")
	f.StringVar(&postImage, "image", "", "path to an image to attach")
}
