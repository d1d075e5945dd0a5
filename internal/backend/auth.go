package backend

import "context"

// Login exchanges credentials for the rep profile and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.postJSON(ctx, "auth.login", "/auth/login", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account pending email verification.
func (c *Client) Register(ctx context.Context, params RegisterParams) error {
	return c.postJSON(ctx, "auth.register", "/auth/register", nil, params, nil)
}

// Verify confirms the emailed verification code.
func (c *Client) Verify(ctx context.Context, params VerifyParams) error {
	return c.postJSON(ctx, "auth.verify", "/auth/verify", nil, params, nil)
}

// ResendCode requests a fresh verification code.
func (c *Client) ResendCode(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.postJSON(ctx, "auth.resend_code", "/auth/resend-code", nil, body, nil)
}

// ForgotPassword starts the password reset flow.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.postJSON(ctx, "auth.forgot_password", "/auth/forgot-password", nil, body, nil)
}

// ResetPassword completes the reset flow with the emailed code.
func (c *Client) ResetPassword(ctx context.Context, params ResetPasswordParams) error {
	return c.postJSON(ctx, "auth.reset_password", "/auth/reset-password", nil, params, nil)
}
