package mailer

import "fmt"

// VerificationEmail builds the subject and HTML body carrying the OTP.
func VerificationEmail(code int) (subject, html string) {
	subject = "Your Verification Code"
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f9f9f9;">
        <h2 style="color: #4CAF50; text-align: center;">Verification Code</h2>
        <p style="font-size: 16px; color: #333;">Dear User,</p>
        <p style="font-size: 16px; color: #333;">Your verification code is:</p>
        <div style="text-align: center; margin: 20px 0;">
          <span style="display: inline-block; font-size: 24px; font-weight: bold; color: #4CAF50; padding: 10px 20px; border: 1px solid #4CAF50; border-radius: 5px; background-color: #e8f5e9;">
            %d
          </span>
        </div>
        <p style="font-size: 16px; color: #333;">Please use this code to verify your email address. The code will expire in 5 minutes.</p>
        <p style="font-size: 16px; color: #333;">If you did not request this, please ignore this email.</p>
      </div>`, code)
	return subject, html
}

// VerificationSMS builds the short-message body carrying the OTP.
func VerificationSMS(code int, ttlMinutes int) string {
	return fmt.Sprintf("Your verification code is %d. It is valid for %d minutes.", code, ttlMinutes)
}

// ResetPasswordEmail builds the subject and body carrying the reset URL.
func ResetPasswordEmail(resetURL string) (subject, html string) {
	subject = "Reset Password"
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
        <h3>Password reset requested</h3>
        <p>We received a request to reset the password for your account.</p>
        <p>Your reset password link is:</p>
        <p><a href="%s">%s</a></p>
        <p>If you have not requested this email then please ignore it.</p>
      </div>`, resetURL, resetURL)
	return subject, html
}
