package domain

import (
	"encoding/json"
	"fmt"
)

type AuthType string

const (
	AuthTypeHeaderKey       AuthType = "HeaderKey"
	AuthTypeBodyKey         AuthType = "BodyKey"
	AuthTypeSignatureKey    AuthType = "SignatureKey"
	AuthTypeMultiAuthKey    AuthType = "MultiAuthKey"
	AuthTypeCertificateAuth AuthType = "CertificateAuth"
	AuthTypeTemporaryAuth   AuthType = "TemporaryAuth"
	AuthTypeNoKey           AuthType = "NoKey"
)

// ConnectorAuthType is the credential union stored per merchant connector account.
// AuthType selects which of the secret fields are meaningful.
type ConnectorAuthType struct {
	AuthType    AuthType
	APIKey      Secret
	Key1        Secret
	APISecret   Secret
	Key2        Secret
	Certificate Secret
	PrivateKey  Secret
}

func HeaderKey(apiKey string) ConnectorAuthType {
	return ConnectorAuthType{AuthType: AuthTypeHeaderKey, APIKey: Secret(apiKey)}
}

func BodyKey(apiKey, key1 string) ConnectorAuthType {
	return ConnectorAuthType{AuthType: AuthTypeBodyKey, APIKey: Secret(apiKey), Key1: Secret(key1)}
}

func SignatureKey(apiKey, key1, apiSecret string) ConnectorAuthType {
	return ConnectorAuthType{
		AuthType:  AuthTypeSignatureKey,
		APIKey:    Secret(apiKey),
		Key1:      Secret(key1),
		APISecret: Secret(apiSecret),
	}
}

func MultiAuthKey(apiKey, key1, apiSecret, key2 string) ConnectorAuthType {
	return ConnectorAuthType{
		AuthType:  AuthTypeMultiAuthKey,
		APIKey:    Secret(apiKey),
		Key1:      Secret(key1),
		APISecret: Secret(apiSecret),
		Key2:      Secret(key2),
	}
}

func CertificateAuth(certificate, privateKey string) ConnectorAuthType {
	return ConnectorAuthType{
		AuthType:    AuthTypeCertificateAuth,
		Certificate: Secret(certificate),
		PrivateKey:  Secret(privateKey),
	}
}

func NoKey() ConnectorAuthType {
	return ConnectorAuthType{AuthType: AuthTypeNoKey}
}

// Validate checks that the fields required by the variant are present.
func (a ConnectorAuthType) Validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%s auth requires %s", a.AuthType, name)
	}
	switch a.AuthType {
	case AuthTypeHeaderKey:
		if a.APIKey.IsEmpty() {
			return missing("api_key")
		}
	case AuthTypeBodyKey:
		if a.APIKey.IsEmpty() || a.Key1.IsEmpty() {
			return missing("api_key and key1")
		}
	case AuthTypeSignatureKey:
		if a.APIKey.IsEmpty() || a.Key1.IsEmpty() || a.APISecret.IsEmpty() {
			return missing("api_key, key1 and api_secret")
		}
	case AuthTypeMultiAuthKey:
		if a.APIKey.IsEmpty() || a.Key1.IsEmpty() || a.APISecret.IsEmpty() || a.Key2.IsEmpty() {
			return missing("api_key, key1, api_secret and key2")
		}
	case AuthTypeCertificateAuth:
		if a.Certificate.IsEmpty() || a.PrivateKey.IsEmpty() {
			return missing("certificate and private_key")
		}
	case AuthTypeNoKey, AuthTypeTemporaryAuth:
	default:
		return fmt.Errorf("unknown auth type %q", a.AuthType)
	}
	return nil
}

type authJSON struct {
	AuthType    AuthType `json:"auth_type"`
	APIKey      string   `json:"api_key,omitempty"`
	Key1        string   `json:"key1,omitempty"`
	APISecret   string   `json:"api_secret,omitempty"`
	Key2        string   `json:"key2,omitempty"`
	Certificate string   `json:"certificate,omitempty"`
	PrivateKey  string   `json:"private_key,omitempty"`
}

func (a *ConnectorAuthType) UnmarshalJSON(b []byte) error {
	var raw authJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = ConnectorAuthType{
		AuthType:    raw.AuthType,
		APIKey:      Secret(raw.APIKey),
		Key1:        Secret(raw.Key1),
		APISecret:   Secret(raw.APISecret),
		Key2:        Secret(raw.Key2),
		Certificate: Secret(raw.Certificate),
		PrivateKey:  Secret(raw.PrivateKey),
	}
	return a.Validate()
}

// MarshalJSON only exposes the variant; credentials never leave the process through JSON.
func (a ConnectorAuthType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AuthType AuthType `json:"auth_type"`
	}{a.AuthType})
}

// EncodeCredentials serializes the credentials unmasked for storage.
func (a ConnectorAuthType) EncodeCredentials() ([]byte, error) {
	return json.Marshal(authJSON{
		AuthType:    a.AuthType,
		APIKey:      a.APIKey.Expose(),
		Key1:        a.Key1.Expose(),
		APISecret:   a.APISecret.Expose(),
		Key2:        a.Key2.Expose(),
		Certificate: a.Certificate.Expose(),
		PrivateKey:  a.PrivateKey.Expose(),
	})
}
