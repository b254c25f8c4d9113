package cli

import (
	"fmt"
	"io"
	"socialite/model"
	"socialite/service"
	"strings"
	"text/tabwriter"
	"time"
)

const timeLayout = "2006-01-02 15:04"

func fullName(u model.PublicUser) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// printPosts renders posts the way the home page lists them, comments indented below each post
func printPosts(w io.Writer, posts []service.PostView) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts yet")
		return
	}
	for _, p := range posts {
		pin := ""
		if p.Pinned {
			pin = " [pinned]"
		}
		fmt.Fprintf(w, "%s  %s  %s%s\n", p.ID.Hex(), fullName(p.User), p.CreatedAt.Local().Format(timeLayout), pin)
		fmt.Fprintf(w, "  %s\n", p.Content)
		if p.Image != "" {
			fmt.Fprintf(w, "  image: %s\n", p.Image)
		}
		fmt.Fprintf(w, "  %d likes, %d comments\n", p.Likes.Len(), len(p.Comments))
		for _, c := range p.Comments {
			fmt.Fprintf(w, "    %s: %s\n", fullName(c.User), c.Content)
		}
		fmt.Fprintln(w)
	}
}

func printComments(w io.Writer, comments []service.CommentView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAUTHOR\tWHEN\tCOMMENT")
	for _, c := range comments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID.Hex(), fullName(c.User), c.CreatedAt.Local().Format(timeLayout), c.Content)
	}
	_ = tw.Flush()
}

func printUsers(w io.Writer, users []model.PublicUser) {
	if len(users) == 0 {
		fmt.Fprintln(w, "Nobody here")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\n", u.ID.Hex(), fullName(u))
	}
	_ = tw.Flush()
}

func printSearch(w io.Writer, users []model.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID.Hex(), fullName(u.Public()), u.Email)
	}
	_ = tw.Flush()
}

func printProfile(w io.Writer, p *service.Profile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	if p.Bio != "" {
		fmt.Fprintf(tw, "Bio:\t%s\n", p.Bio)
	}
	if p.Avatar != "" {
		fmt.Fprintf(tw, "Avatar:\t%s\n", p.Avatar)
	}
	if p.CoverPhoto != "" {
		fmt.Fprintf(tw, "Cover:\t%s\n", p.CoverPhoto)
	}
	fmt.Fprintf(tw, "Joined:\t%s\n", p.CreatedAt.Local().Format(time.RFC1123))
	names := make([]string, 0, len(p.Friends))
	for _, f := range p.Friends {
		names = append(names, fullName(f))
	}
	fmt.Fprintf(tw, "Friends:\t%d %s\n", len(p.Friends), strings.Join(names, ", "))
	_ = tw.Flush()
}
