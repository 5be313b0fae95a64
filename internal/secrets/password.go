package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// "Service" groups this app's secrets in the OS keychain.
const KeyringService = "jobsift"

// IMAPAccount is the keychain account key for a mailbox credential.
func IMAPAccount(username, host string) string {
	return fmt.Sprintf("jobsift:imap:%s@%s", username, host)
}

func GetIMAPPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("IMAP password not found in keychain")
	}
	return pw, nil
}

func SetIMAPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func DeleteIMAPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
