package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edwinsyarief/kumiai"
)

var callCmd = &cobra.Command{
	Use:   "call <domain.toml>",
	Short: "Create an object of a declared type and send it a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, _ := cmd.Flags().GetString("type")
		msgName, _ := cmd.Flags().GetString("message")
		combine, _ := cmd.Flags().GetString("combine")
		callArgs, _ := cmd.Flags().GetStringSlice("arg")

		c, err := loadDomain(args[0])
		if err != nil {
			return err
		}
		msg, ok := c.Messages[msgName]
		if !ok {
			return fmt.Errorf("unknown message %q", msgName)
		}
		obj, err := c.NewObject(typeName)
		if err != nil {
			return err
		}
		defer obj.Destroy()

		margs := make([]any, len(callArgs))
		for i, a := range callArgs {
			margs[i] = a
		}
		result, err := send(obj, msg, combine, margs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	callCmd.Flags().String("type", "", "declared type to instantiate")
	callCmd.Flags().String("message", "", "message to send")
	callCmd.Flags().String("combine", "collect", "multicast combinator (sum|collect|any|all|count|last)")
	callCmd.Flags().StringSlice("arg", nil, "string argument passed to the message (repeatable)")
	_ = callCmd.MarkFlagRequired("type")
	_ = callCmd.MarkFlagRequired("message")
}

// send dispatches msg according to its kind. A responder returning a result
// the combinator cannot take is reported as an error.
func send(obj *kumiai.Object, msg kumiai.MessageID, combine string, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if obj.Type().Domain().MessageKindOf(msg) != kumiai.Multicast {
		return obj.Call(msg, args...)
	}
	switch combine {
	case "sum":
		return kumiai.MulticastAs(obj, msg, kumiai.Sum[int64], args...)
	case "collect":
		return kumiai.MulticastAs(obj, msg, kumiai.Collect[any], args...)
	case "any":
		return kumiai.MulticastAs(obj, msg, kumiai.BoolOr, args...)
	case "all":
		return kumiai.MulticastAs(obj, msg, kumiai.BoolAnd, args...)
	case "count":
		return kumiai.MulticastAs(obj, msg, kumiai.Count[any], args...)
	case "last":
		return kumiai.MulticastAs(obj, msg, kumiai.Last[any], args...)
	}
	return nil, fmt.Errorf("unknown combinator %q", combine)
}
