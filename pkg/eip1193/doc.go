// Package eip1193 provides a typed client over an injected EIP-1193 wallet
// provider.
//
// The provider itself is reached through a Transport. The client turns the
// provider's untyped request method into typed calls with classified errors,
// and its events into typed callbacks:
//
//	transport, err := wsbridge.Dial(ctx, "ws://127.0.0.1:8546/bridge", wsbridge.DefaultConfig, logger)
//	if err != nil {
//	    return err
//	}
//	client, err := eip1193.NewClient(transport, eip1193.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	chain, err := client.Chain(ctx)
//	if errors.Is(err, eip1193.ErrUserRejectedRequest) {
//	    // the user dismissed the wallet prompt
//	}
//
//	sub, err := client.OnChainChanged(func(chain chains.Chain) {
//	    logger.Info("chain changed", "chain", chain)
//	})
//	defer sub.Unsubscribe()
//
// # Errors
//
// Failed requests return a *ProviderError classified by the provider error
// code, or a *DecodeError when the response does not have the expected shape.
// Both match the package sentinels with errors.Is.
//
// # Events
//
// Every On* method registers exactly one listener and returns a Subscription.
// Listeners stay registered until the subscription is disposed or the client is
// closed. Payloads that fail to decode never reach the callback; they are
// reported to the handler set with WithEventErrorHandler.
package eip1193
