package cli

import (
	"fmt"
	"github.com/spf13/cobra"
	"socialite/service"
)

func (a *App) postCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, edit and react to posts",
	}

	var image string
	create := &cobra.Command{
		Use:   "create <content>",
		Short: "Publish a post",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			post, err := a.api.CreatePost(cmd.Context(), args[0], image)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Post %s created\n", post.ID.Hex())
			return nil
		}),
	}
	create.Flags().StringVar(&image, "image", "", "image URL, see `socialctl upload`")

	var content, newImage string
	edit := &cobra.Command{
		Use:   "edit <postId>",
		Short: "Change the content or image of your post",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			var in service.UpdatePostInput
			if cmd.Flags().Changed("content") {
				in.Content = &content
			}
			if cmd.Flags().Changed("image") {
				in.Image = &newImage
			}
			post, err := a.api.UpdatePost(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			printPosts(a.out, []service.PostView{*post})
			return nil
		}),
	}
	edit.Flags().StringVar(&content, "content", "", "new content")
	edit.Flags().StringVar(&newImage, "image", "", "new image URL, empty to remove it")

	show := &cobra.Command{
		Use:   "show <postId>",
		Short: "Show one post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			post, err := a.api.Post(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPosts(a.out, []service.PostView{*post})
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <postId>",
		Short: "Delete your post",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeletePost(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Post deleted")
			return nil
		}),
	}

	like := &cobra.Command{
		Use:   "like <postId>",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			res, err := a.api.ToggleLike(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d likes\n", res.LikesCount)
			return nil
		}),
	}

	pin := &cobra.Command{
		Use:   "pin <postId>",
		Short: "Pin or unpin your post",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			res, err := a.api.TogglePin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, res.Message)
			return nil
		}),
	}

	save := &cobra.Command{
		Use:   "save <postId>",
		Short: "Bookmark a post or drop the bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			res, err := a.api.ToggleSave(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, res.Message)
			return nil
		}),
	}

	saved := &cobra.Command{
		Use:   "saved",
		Short: "List your bookmarked posts",
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			posts, err := a.api.SavedPosts(cmd.Context())
			if err != nil {
				return err
			}
			printPosts(a.out, posts)
			return nil
		}),
	}

	cmd.AddCommand(create, edit, show, del, like, pin, save, saved)
	return cmd
}

func (a *App) commentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment on posts",
	}

	add := &cobra.Command{
		Use:   "add <postId> <content>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			c, err := a.api.CreateComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Comment %s added\n", c.ID.Hex())
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list <postId>",
		Short: "List the comments of a post, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			comments, err := a.api.Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printComments(a.out, comments)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <commentId>",
		Short: "Delete your comment",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteComment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Comment deleted")
			return nil
		}),
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func (a *App) friendsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Send, accept and list friend requests",
	}

	request := &cobra.Command{
		Use:   "request <userId>",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			msg, err := a.api.SendFriendRequest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg)
			return nil
		}),
	}

	accept := &cobra.Command{
		Use:   "accept <userId>",
		Short: "Accept a pending friend request",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			msg, err := a.api.AcceptFriendRequest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg)
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pending friend requests",
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			users, err := a.api.FriendRequests(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(a.out, users)
			return nil
		}),
	}

	cmd.AddCommand(request, accept, list)
	return cmd
}
