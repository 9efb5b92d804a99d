// Package invoker issues the GET requests of a conformance run over one
// long-lived HTTP session.
//
// A Session is created once per run, shared by every case (it is safe for
// concurrent use) and closed once at the end:
//
//	session, err := invoker.New(invoker.FromConfig(cfg))
//	if err != nil {
//		return err
//	}
//	defer session.Close()
//
//	resp, err := session.Get(ctx, "/students/931234567/grades", map[string]string{"term": "201901"})
//
// Response bodies are decoded only when they are valid JSON. Anything else,
// including an empty body, is reported with HasBody false so callers can tell
// an absent body from a JSON null.
package invoker
