// Package paylink builds opaque external payment URLs. Each link carries a
// signed request token in the label so a gateway callback can be matched to
// the exact payment request that produced it.
package paylink

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt"
)

const quickpayURL = "https://yoomoney.ru/quickpay/confirm.xml"

type Claims struct {
	PaymentID string `json:"payment_id"`
	jwt.StandardClaims
}

type Builder struct {
	wallet string
	secret []byte
}

func NewBuilder(wallet, secret string) *Builder {
	return &Builder{
		wallet: wallet,
		secret: []byte(secret),
	}
}

// Build returns the payment URL for the given amount, labeled with a token
// bound to paymentID.
func (b *Builder) Build(paymentID string, amount int64) (string, error) {
	token, err := b.sign(paymentID)
	if err != nil {
		return "", fmt.Errorf("can't sign payment token: %w", err)
	}

	q := url.Values{}
	q.Set("receiver", b.wallet)
	q.Set("sum", fmt.Sprintf("%d", amount))
	q.Set("label", token)

	return quickpayURL + "?" + q.Encode(), nil
}

func (b *Builder) sign(paymentID string) (string, error) {
	claims := Claims{
		PaymentID: paymentID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: time.Now().Unix(),
			Issuer:   "topupbot",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.secret)
}

// Parse validates a label token and returns the payment id it was issued for.
func (b *Builder) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return b.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid payment token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.PaymentID == "" || claims.Issuer != "topupbot" {
		return "", errors.New("invalid payment token claims")
	}

	return claims.PaymentID, nil
}
