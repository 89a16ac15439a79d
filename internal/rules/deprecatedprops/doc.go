// Package deprecatedprops flags JSX attributes and spread arguments that
// pass component props marked @deprecated in the component's props type.
//
// The engine is four steps over a type oracle: resolve the tag identifier to
// its declared symbol, take the type of the first parameter of the first call
// signature, collect the members carrying a deprecated tag and match them
// against the element's attributes and spreads.
package deprecatedprops
