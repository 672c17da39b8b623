// Package hosttest provides a scripted pybridge.Host for tests and examples.
//
// Host answers HostObject calls from handlers and attribute values installed
// per index, and records every call it receives with its arguments converted
// to Go values:
//
//	host := hosttest.New()
//	host.OnCall(0, func(args pybridge.Borrowed) (*pybridge.Object, error) {
//	    return args.Runtime().Str("pong")
//	})
//	host.SetAttr(0, "name", "ping")
//
//	rt, _ := pybridge.Init(ctx, pybridge.DefaultConfig(), host)
//	obj, _ := rt.WrapHost(0)
//	// obj() returns "pong", obj.name returns "ping"
//
//	for _, c := range host.Calls() {
//	    fmt.Println(c.Index, c.Method, c.Args)
//	}
//
// Calls without a handler fail with ErrUnscripted, which the interpreter sees
// as RuntimeError. Unknown attributes fail with
// pybridge.ErrAttributeNotFound.
//
// Host is meant for tests only: it keeps every call in memory.
package hosttest
