// Package hookmail provides a Go client SDK for Hookmail, a hosted
// email-to-webhook forwarding service. An address is a managed email
// address that forwards every message it receives to a webhook endpoint
// you control.
//
// Basic usage:
//
//	client, err := hookmail.New("your-api-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Create a forwarding address
//	addr, err := client.CreateAddress(ctx, hookmail.CreateAddressParams{
//	    WebhookURL: "https://example.com/hooks/mail",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Forwarding address:", addr.Email)
//
// Webhook receivers verify deliveries with VerifyRequest and decode them
// with ParseEvent.
package hookmail
