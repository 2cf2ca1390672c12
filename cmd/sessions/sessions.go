package sessions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/errors"
)

// Command creates the sessions command group for listing and managing
// stored sessions.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and manage stored sessions",
	}

	cmd.AddCommand(listCommand(settings))
	cmd.AddCommand(endCommand(settings))
	cmd.AddCommand(deleteCommand(settings))

	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(settings, func(store datastore.Interface) error {
				sessions, err := store.GetAllSessions(cmd.Context())
				if err != nil {
					return err
				}

				if len(sessions) == 0 {
					fmt.Println("No sessions stored")
					return nil
				}
				for i := range sessions {
					s := &sessions[i]
					state := "open"
					if s.Ended() {
						state = fmt.Sprintf("%ds", s.Duration)
					}
					fmt.Printf("%s  %-20s %s  %s\n",
						s.ID, s.CandidateName, s.StartTime.Format("2006-01-02 15:04"), state)
				}
				return nil
			})
		},
	}
}

func endCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "end [session-id]",
		Short: "End an open session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(settings, func(store datastore.Interface) error {
				session, err := store.EndSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Session %s ended after %ds\n", session.ID, session.Duration)
				return nil
			})
		},
	}
}

func deleteCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [session-id]",
		Short: "Delete a session and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(settings, func(store datastore.Interface) error {
				if err := store.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Session %s deleted\n", args[0])
				return nil
			})
		},
	}
}

func withStore(settings *conf.Settings, fn func(datastore.Interface) error) error {
	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no output database enabled").
			Component("sessions").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}
