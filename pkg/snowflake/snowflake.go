package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// SetNode switches the worker id. Call it before serving when running more than one instance.
func SetNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	node = n
	return nil
}

func GenID() int64 {
	return node.Generate().Int64()
}
