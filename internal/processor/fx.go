package processor

import "go.uber.org/fx"

var Module = fx.Module("processor",
	fx.Provide(
		NewClient,
		func(c *Client) CredentialIssuer { return c },
		func(c *Client) IntentCreator { return c },
		func(c *Client) CustomerRegistry { return c },
		func(c *Client) PaymentMethodRegistry { return c },
	),
)
