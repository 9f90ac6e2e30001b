package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benchray/benchray/pkg/errors"
	"github.com/benchray/benchray/pkg/sceneio"
	"github.com/benchray/benchray/pkg/store"
)

// sceneCommand creates the scene management command.
func (c *CLI) sceneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Manage stored scenes",
	}

	cmd.AddCommand(c.sceneListCommand())
	cmd.AddCommand(c.sceneShowCommand())
	cmd.AddCommand(c.sceneSaveCommand())
	cmd.AddCommand(c.sceneExportCommand())
	cmd.AddCommand(c.sceneDeleteCommand())

	return cmd
}

// openStore builds the configured store backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
		})
	default:
		dir, err := storeDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve store dir: %w", err)
		}
		return store.NewFileStore(dir)
	}
}

func (c *CLI) sceneListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			recs, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No stored scenes")
				return nil
			}
			for _, rec := range recs {
				fmt.Printf("%s  %-24s  %3d elements  %s\n",
					rec.ID, rec.Name, len(rec.Document.Elements),
					StyleDim.Render(rec.UpdatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func (c *CLI) sceneShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a stored scene's elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSceneID(args[0]); err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			printKeyValue("Name", rec.Name)
			printKeyValue("ID", rec.ID)
			printKeyValue("Updated", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
			fmt.Println()
			for _, e := range rec.Document.Elements {
				parent := "root"
				if e.ParentID != 0 {
					parent = fmt.Sprintf("parent %d", e.ParentID)
				}
				fmt.Printf("  #%-3d %-16s %-11s r=%-7.2f θ=%-6.2f° (%.0f, %.0f) %s\n",
					e.ID, e.Type, e.Desc.Model, e.Desc.Radius, e.Desc.ConeAngle,
					e.X, e.Y, StyleDim.Render(parent))
			}
			return nil
		},
	}
}

func (c *CLI) sceneSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [scene.json]",
		Short: "Save a scene file to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, doc, err := sceneio.ReadSceneFile(args[0])
			if err != nil {
				return fmt.Errorf("load scene %s: %w", args[0], err)
			}

			if name == "" {
				name = doc.Name
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			if err := errors.ValidateSceneName(name); err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			rec, err := st.Save(ctx, store.Record{Name: name, Document: doc})
			if err != nil {
				return err
			}
			printSuccess("Saved %q", rec.Name)
			printDetail("ID: %s", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "scene name (defaults to the document or file name)")
	return cmd
}

func (c *CLI) sceneExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a stored scene to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSceneID(args[0]); err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			s, err := rec.Document.ToScene()
			if err != nil {
				return fmt.Errorf("stored document is invalid: %w", err)
			}

			if output == "" {
				output = rec.Name + ".json"
			}
			if err := sceneio.WriteSceneFile(s, rec.Name, output); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <name>.json)")
	return cmd
}

func (c *CLI) sceneDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSceneID(args[0]); err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
