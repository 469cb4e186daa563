package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Manage checklist items within entries",
	Long:  `Provides commands for adding, listing, updating, and deleting the checklist items attached to journal entries.`,
}

var checklistAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a checklist item to an entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, _ := cmd.Flags().GetString("entry-id")
		text, _ := cmd.Flags().GetString("text")
		order, _ := cmd.Flags().GetInt("order")

		if entryID == "" {
			return fmt.Errorf("entry-id is required")
		}
		if text == "" {
			return fmt.Errorf("text is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		item, err := store.AddChecklistItem(cmd.Context(), journal.NewChecklistItem{
			EntryID: entryID,
			Text:    text,
			Order:   order,
		})
		if err != nil {
			return fmt.Errorf("failed to add checklist item: %w", err)
		}

		fmt.Println("Checklist item added successfully:")
		output, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format checklist item output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var checklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an entry's checklist items",
	Long:  `Lists the checklist items of an entry sorted by display order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, _ := cmd.Flags().GetString("entry-id")
		if entryID == "" {
			return fmt.Errorf("entry-id is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.ListChecklistItems(cmd.Context(), entryID)
		if err != nil {
			return fmt.Errorf("failed to list checklist items: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No checklist items found.")
			return nil
		}

		fmt.Println("Checklist items:")
		output, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format checklist items output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var checklistUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a checklist item",
	Long:  `Updates an existing checklist item with the given ID. Only provided fields will be updated.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]

		var patch journal.ChecklistItemPatch

		if cmd.Flags().Changed("text") {
			t, _ := cmd.Flags().GetString("text")
			patch.Text = &t
		}
		if cmd.Flags().Changed("order") {
			o, _ := cmd.Flags().GetInt("order")
			patch.Order = &o
		}

		completeFlagSet := cmd.Flags().Changed("complete")
		incompleteFlagSet := cmd.Flags().Changed("incomplete")

		if completeFlagSet && incompleteFlagSet {
			return fmt.Errorf("cannot use --complete and --incomplete flags simultaneously")
		}
		if completeFlagSet {
			c := true
			patch.IsCompleted = &c
		} else if incompleteFlagSet {
			c := false
			patch.IsCompleted = &c
		}

		if patch.Text == nil && patch.Order == nil && patch.IsCompleted == nil {
			fmt.Println("No update fields provided. Use --text, --order, --complete, or --incomplete.")
			return nil
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		item, err := store.UpdateChecklistItem(cmd.Context(), itemID, patch)
		if err != nil {
			if errors.Is(err, journal.ErrChecklistItemNotFound) {
				fmt.Printf("Checklist item with ID %s not found.\n", itemID)
				return nil
			}
			return fmt.Errorf("failed to update checklist item: %w", err)
		}

		fmt.Println("Checklist item updated successfully:")
		output, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format checklist item output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var checklistDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a checklist item by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteChecklistItem(cmd.Context(), itemID); err != nil {
			return fmt.Errorf("failed to delete checklist item: %w", err)
		}

		fmt.Printf("Checklist item with ID %s deleted successfully.\n", itemID)
		return nil
	},
}

func initChecklistCmd() {
	checklistAddCmd.Flags().StringP("entry-id", "e", "", "ID of the entry to add the item to (required)")
	checklistAddCmd.MarkFlagRequired("entry-id")
	checklistAddCmd.Flags().StringP("text", "t", "", "Item text (required)")
	checklistAddCmd.MarkFlagRequired("text")
	checklistAddCmd.Flags().Int("order", 0, "Display order within the entry")

	checklistListCmd.Flags().StringP("entry-id", "e", "", "ID of the entry to list items for (required)")
	checklistListCmd.MarkFlagRequired("entry-id")

	checklistUpdateCmd.Flags().StringP("text", "t", "", "New text for the item")
	checklistUpdateCmd.Flags().Int("order", 0, "New display order")
	checklistUpdateCmd.Flags().Bool("complete", false, "Mark the item as completed")
	checklistUpdateCmd.Flags().Bool("incomplete", false, "Mark the item as not completed")

	checklistCmd.AddCommand(checklistAddCmd, checklistListCmd, checklistUpdateCmd, checklistDeleteCmd)
}
