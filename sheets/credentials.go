/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package sheets

import (
	"context"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const readOnlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// Credentials identify the Google service account that porecycler reads
// manifest sheets as. Share your sheet with the account's Email().
type Credentials struct {
	conf *jwt.Config
}

// CredentialsFromFile reads the JSON key file of a service account, as
// downloaded from the Google Cloud console. Access is limited to reading
// spreadsheets.
func CredentialsFromFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	conf, err := google.JWTConfigFromJSON(data, readOnlyScope)
	if err != nil {
		return nil, err
	}

	if conf.Email == "" || len(conf.PrivateKey) == 0 {
		return nil, ErrIncompleteCredentials
	}

	return &Credentials{conf: conf}, nil
}

// Email returns the address of the service account.
func (c *Credentials) Email() string {
	return c.conf.Email
}

func (c *Credentials) client(ctx context.Context) *http.Client {
	return c.conf.Client(ctx)
}
