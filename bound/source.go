// Copyright 2018 The Jadep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bound

import (
	"github.com/bazelbuild/headergen/ast"
	"github.com/bazelbuild/headergen/symbol"
	"github.com/bazelbuild/headergen/types"
)

// SourceClass is a class declared in the units being compiled. Its fields
// are filled in incrementally, one group per binder phase; a phase never
// reads a field a later phase is responsible for, so there's no ordering
// hazard despite the shared mutable struct. Between phases the binder
// treats the whole set of SourceClasses as frozen: readers consult it, the
// phase in progress is the only writer.
type SourceClass struct {
	// Set by Enter.
	ClassSym     *symbol.ClassSymbol
	DeclKind     ast.TypeKind
	RawAccess    ast.AccessFlags
	OwnerSym     *symbol.ClassSymbol
	ChildrenSyms []*symbol.ClassSymbol
	Decl         *ast.TypeDecl
	Path         string // source file path, for diagnostics.

	// Set by Header.
	SuperSym       *symbol.ClassSymbol
	InterfaceSyms  []*symbol.ClassSymbol
	TypeParamSymbs []*symbol.TyVarSymbol

	// Set by Type.
	SuperTy    types.Type
	IfaceTypes []types.Type
	BoundFlds  []*FieldBinding
	BoundMeths []*MethodBinding
	Annos      []*types.AnnoInfo
	// TyParamBounds[i] is the resolved bound list for TypeParamSymbs[i]
	// (first entry may be a class bound, rest are interface bounds),
	// needed by the lowerer to emit the class's Signature attribute.
	TyParamBounds [][]types.Type
}

func (c *SourceClass) Sym() *symbol.ClassSymbol             { return c.ClassSym }
func (c *SourceClass) Kind() ast.TypeKind                   { return c.DeclKind }
func (c *SourceClass) Access() ast.AccessFlags              { return c.RawAccess }
func (c *SourceClass) Owner() *symbol.ClassSymbol           { return c.OwnerSym }
func (c *SourceClass) Children() []*symbol.ClassSymbol      { return c.ChildrenSyms }
func (c *SourceClass) Super() *symbol.ClassSymbol           { return c.SuperSym }
func (c *SourceClass) Interfaces() []*symbol.ClassSymbol    { return c.InterfaceSyms }
func (c *SourceClass) TypeParamSyms() []*symbol.TyVarSymbol { return c.TypeParamSymbs }
func (c *SourceClass) SuperType() types.Type                { return c.SuperTy }
func (c *SourceClass) InterfaceTypes() []types.Type         { return c.IfaceTypes }
func (c *SourceClass) Fields() []*FieldBinding              { return c.BoundFlds }
func (c *SourceClass) Methods() []*MethodBinding            { return c.BoundMeths }
func (c *SourceClass) Annotations() []*types.AnnoInfo       { return c.Annos }

var _ Class = (*SourceClass)(nil)
