package commands

import (
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"
)

// keysCommand lists raw keys, the way one inspects the keyspace when debugging an index.
func keysCommand(a *app) *cobra.Command {
	var prefix string
	var limit int
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List raw badger keys under a prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := newTable(cmd.OutOrStdout(), "Key", "Value size", "Version")
			count := 0
			err := a.db.View(func(txn *badger.Txn) error {
				opts := badger.DefaultIteratorOptions
				opts.PrefetchValues = false
				it := txn.NewIterator(opts)
				defer it.Close()
				for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
					if limit > 0 && count >= limit {
						break
					}
					item := it.Item()
					table.Append([]string{
						string(item.Key()),
						strconv.FormatInt(item.ValueSize(), 10),
						strconv.FormatUint(item.Version(), 10),
					})
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}
			table.Render()
			notice(cmd.OutOrStdout(), "%d keys", count)
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix, e.g. room: or msg:")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum keys listed, 0 for all")
	return cmd
}
