package service

import "fmt"

func welcomeEmailTemplate(name, profileURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is active. You can set your name, email and avatar on your profile:
%s

Best,
The %s Team`, name, profileURL, appName)

	return subject, body
}

func emailChangedTemplate(name, newEmail, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s email address was changed", appName)
	body := fmt.Sprintf(`Hi %s,

The email address on your account was changed to: %s

You will receive future messages at the new address.

If you didn't make this change, your account may be compromised. Please change your password immediately and contact our support team.

Best,
The %s Team`, name, newEmail, appName)

	return subject, body
}
